// Package pipeline runs the record filter, the graph builder and the edge
// writer end to end over blobstore locations.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/internal/compress"
	"github.com/hupe1980/geoknn/model"
	"github.com/hupe1980/geoknn/table"
)

// Pipeline executes one Config.
type Pipeline struct {
	plan     *plan
	resolver Resolver
	logger   *geoknn.Logger
	metrics  geoknn.MetricsCollector
	progress time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver replaces DefaultResolver.
func WithResolver(r Resolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithLogger sets the logger shared with the builder.
func WithLogger(l *geoknn.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetricsCollector sets the collector shared with the builder.
func WithMetricsCollector(mc geoknn.MetricsCollector) Option {
	return func(p *Pipeline) {
		if mc != nil {
			p.metrics = mc
		}
	}
}

// WithProgressInterval sets how often build progress is logged.
func WithProgressInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.progress = d }
}

// New validates cfg and returns a Pipeline.
func New(cfg Config, optFns ...Option) (*Pipeline, error) {
	pl, err := cfg.plan()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		plan:     pl,
		resolver: DefaultResolver,
		logger:   geoknn.NoopLogger(),
		metrics:  geoknn.NoopMetricsCollector{},
		progress: geoknn.DefaultProgressInterval,
	}
	for _, fn := range optFns {
		fn(p)
	}
	p.logger = p.logger.With("input", pl.input.String(), "output", pl.output.String())
	return p, nil
}

// Result summarizes a successful run.
type Result struct {
	Report   *table.FilterReport
	Nodes    int
	Edges    int
	Duration time.Duration
}

// Run reads and filters the input, builds the graph and writes the edge
// list. On failure the output is aborted, so no partial edge list is left.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	nodes, report, err := p.readNodes(ctx)
	if err != nil {
		return nil, err
	}

	builder, err := geoknn.NewBuilder(
		geoknn.WithK(p.plan.cfg.K),
		geoknn.WithWorkers(p.plan.cfg.Workers),
		geoknn.WithMetric(p.plan.cfg.Metric),
		geoknn.WithRejectDuplicateIDs(p.plan.cfg.RejectDuplicates),
		geoknn.WithLogger(p.logger),
		geoknn.WithMetricsCollector(p.metrics),
		geoknn.WithProgressInterval(p.progress),
	)
	if err != nil {
		return nil, err
	}

	edges, err := p.writeEdges(ctx, func(write func(model.Edge) error) error {
		return builder.BuildStream(ctx, nodes, write)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Report:   report,
		Nodes:    len(nodes),
		Edges:    edges,
		Duration: time.Since(start),
	}, nil
}

func (p *Pipeline) readNodes(ctx context.Context) (model.NodeSet, *table.FilterReport, error) {
	loc := p.plan.input

	store, err := p.resolver(ctx, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("open input %s: %w", loc, err)
	}

	rc, err := store.Open(ctx, loc.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("open input %s: %w", loc, err)
	}
	defer rc.Close()

	r, err := compress.NewReader(rc, compress.FromPath(loc.Key))
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	start := time.Now()
	nodes, report, err := table.ReadNodes(r, p.plan.cfg.Schema)
	if err != nil {
		return nil, nil, fmt.Errorf("read input %s: %w", loc, err)
	}

	p.metrics.RecordFilter(report.Rows, report.Kept, time.Since(start))
	p.logger.LogFilter(ctx, report.Rows, report.Kept)

	return nodes, report, nil
}

// writeEdges opens the output, lets produce stream edges into it and
// commits the blob only if every step succeeded.
func (p *Pipeline) writeEdges(ctx context.Context, produce func(write func(model.Edge) error) error) (n int, err error) {
	loc := p.plan.output

	store, err := p.resolver(ctx, loc)
	if err != nil {
		return 0, fmt.Errorf("open output %s: %w", loc, err)
	}

	blob, err := store.Create(ctx, loc.Key)
	if err != nil {
		return 0, fmt.Errorf("create output %s: %w", loc, err)
	}
	defer func() {
		if err != nil {
			_ = blob.Abort()
		}
	}()

	cw, err := compress.NewWriter(blob, compress.FromPath(loc.Key))
	if err != nil {
		return 0, err
	}

	ew, err := table.NewEdgeWriter(cw, p.plan.format, table.WithCodec(p.plan.codec))
	if err != nil {
		return 0, err
	}

	if err := produce(ew.Write); err != nil {
		return 0, err
	}

	if err := ew.Flush(); err != nil {
		return 0, fmt.Errorf("write output %s: %w", loc, err)
	}
	if err := cw.Close(); err != nil {
		return 0, fmt.Errorf("write output %s: %w", loc, err)
	}
	if err := blob.Close(); err != nil {
		return 0, fmt.Errorf("commit output %s: %w", loc, err)
	}
	p.logger.LogCommit(ctx, loc.String(), ew.Count())
	return ew.Count(), nil
}
