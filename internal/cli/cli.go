package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/geoknn/distance"
	"github.com/hupe1980/geoknn/internal/jobconfig"
	"github.com/hupe1980/geoknn/internal/pipeline"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// Config is everything the command needs to run.
type Config struct {
	Pipeline  pipeline.Config
	JobPath   string
	LogFormat string
	LogLevel  slog.Level
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("geoknn", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
geoknn - builds a k-nearest-neighbor proximity graph over geographic nodes.

Usage:
  geoknn [options] [JOB.hcl]

Arguments:
  JOB.hcl
    Optional job file. Options given on the command line override it.

Locations may be local paths, s3://bucket/key or minio://bucket/key.
A .zst or .lz4 suffix compresses or decompresses the stream.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := pipeline.DefaultConfig()

	in := flagSet.String("in", "", "Node table to read.")
	out := flagSet.String("out", "", "Edge list to write.")
	k := flagSet.Int("k", defaults.K, "Number of nearest neighbors per node.")
	workers := flagSet.Int("workers", defaults.Workers, "Number of parallel workers. 0 uses all CPUs.")
	metric := flagSet.String("metric", defaults.Metric.String(), "Distance metric. Options: 'haversine', 'equirectangular'.")
	idCol := flagSet.String("id-col", defaults.Schema.IDColumn, "Node ID column.")
	lonCol := flagSet.String("lon-col", defaults.Schema.LonColumn, "Longitude column.")
	latCol := flagSet.String("lat-col", defaults.Schema.LatColumn, "Latitude column.")
	filterCol := flagSet.String("filter-col", defaults.Schema.FilterColumn, "Rows with an empty value here are dropped. Empty disables filtering.")
	format := flagSet.String("format", "", "Edge list format: 'csv' or 'jsonl'. Default: inferred from -out.")
	codecName := flagSet.String("codec", "", "JSON codec for jsonl output: 'json' or 'go-json'.")
	rejectDup := flagSet.Bool("reject-duplicates", false, "Fail when two kept nodes share an ID.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err)
	}

	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one job file, got %d arguments", flagSet.NArg())
	}

	cfg := &Config{Pipeline: defaults}

	if flagSet.NArg() == 1 {
		cfg.JobPath = flagSet.Arg(0)
		job, err := jobconfig.Load(cfg.JobPath)
		if err != nil {
			return nil, false, usageError("%s", err)
		}
		if err := applyJob(&cfg.Pipeline, job); err != nil {
			return nil, false, usageError("%s: %s", cfg.JobPath, err)
		}
	} else if flagSet.NFlag() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	var flagErr error
	flagSet.Visit(func(f *flag.Flag) {
		p := &cfg.Pipeline
		switch f.Name {
		case "in":
			p.Input = *in
		case "out":
			p.Output = *out
		case "k":
			p.K = *k
		case "workers":
			p.Workers = *workers
		case "metric":
			m, err := distance.ParseMetric(*metric)
			if err != nil {
				flagErr = err
				return
			}
			p.Metric = m
		case "id-col":
			p.Schema.IDColumn = *idCol
		case "lon-col":
			p.Schema.LonColumn = *lonCol
		case "lat-col":
			p.Schema.LatColumn = *latCol
		case "filter-col":
			p.Schema.FilterColumn = *filterCol
		case "format":
			p.Format = *format
		case "codec":
			p.Codec = *codecName
		case "reject-duplicates":
			p.RejectDuplicates = *rejectDup
		}
	})
	if flagErr != nil {
		return nil, false, usageError("%s", flagErr)
	}

	cfg.LogFormat = strings.ToLower(*logFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, false, usageError("%s", err)
	}

	return cfg, false, nil
}

// applyJob copies every attribute the job file sets onto cfg.
func applyJob(cfg *pipeline.Config, job *jobconfig.Job) error {
	setString(&cfg.Input, job.Input)
	setString(&cfg.Output, job.Output)
	setString(&cfg.Format, job.Format)
	setString(&cfg.Codec, job.Codec)

	if job.K != nil {
		cfg.K = *job.K
	}
	if job.Workers != nil {
		cfg.Workers = *job.Workers
	}
	if job.RejectDuplicates != nil {
		cfg.RejectDuplicates = *job.RejectDuplicates
	}
	if job.Metric != nil {
		m, err := distance.ParseMetric(*job.Metric)
		if err != nil {
			return err
		}
		cfg.Metric = m
	}

	if s := job.Schema; s != nil {
		setString(&cfg.Schema.IDColumn, s.ID)
		setString(&cfg.Schema.LonColumn, s.Lon)
		setString(&cfg.Schema.LatColumn, s.Lat)
		setString(&cfg.Schema.FilterColumn, s.Filter)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
