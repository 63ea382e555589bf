// Command geoknn filters a node table and writes its k-nearest-neighbor
// proximity graph as an edge list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/internal/cli"
	"github.com/hupe1980/geoknn/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	if err == nil {
		return
	}

	stop()
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(errW, cfg.LogFormat, cfg.LogLevel)
	logger.DebugContext(ctx, "configuration loaded",
		"job", cfg.JobPath,
		"input", cfg.Pipeline.Input,
		"output", cfg.Pipeline.Output,
		"k", cfg.Pipeline.K,
		"workers", cfg.Pipeline.Workers,
		"metric", cfg.Pipeline.Metric.String(),
	)

	p, err := pipeline.New(cfg.Pipeline, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(outW, "wrote %d edges for %d nodes to %s (%d of %d rows dropped) in %s\n",
		res.Edges, res.Nodes, cfg.Pipeline.Output,
		res.Report.DroppedCount(), res.Report.Rows, res.Duration.Round(time.Millisecond))
	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) *geoknn.Logger {
	if format == "json" {
		return geoknn.NewJSONLogger(w, level)
	}
	return geoknn.NewTextLogger(w, level)
}

func exitCode(err error) int {
	var exitErr *cli.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, geoknn.ErrInvalidInput):
		return cli.ExitUsage
	default:
		return cli.ExitFailure
	}
}
