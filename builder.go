package geoknn

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/geoknn/distance"
	"github.com/hupe1980/geoknn/internal/queue"
	"github.com/hupe1980/geoknn/model"
)

// cancelCheckInterval is how many source nodes a worker processes between
// context checks.
const cancelCheckInterval = 64

// streamBlockSize is the number of source nodes computed per block by
// BuildStream before their edges are handed to the callback.
const streamBlockSize = 256

// Builder constructs k-nearest-neighbor graphs over geographic nodes.
// A Builder is immutable and safe for concurrent use.
type Builder struct {
	opts   options
	distFn distance.Func
}

// NewBuilder validates the options and returns a Builder.
func NewBuilder(optFns ...Option) (*Builder, error) {
	o := applyOptions(optFns)

	if o.k <= 0 {
		return nil, invalid(fmt.Errorf("%w: got %d", ErrInvalidK, o.k))
	}

	fn, err := distance.Provider(o.metric)
	if err != nil {
		return nil, invalid(err)
	}

	return &Builder{opts: o, distFn: fn}, nil
}

// Build is a convenience wrapper for NewBuilder(optFns...).Build(ctx, nodes).
func Build(ctx context.Context, nodes model.NodeSet, optFns ...Option) ([]model.Edge, error) {
	b, err := NewBuilder(optFns...)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, nodes)
}

// K returns the configured neighbor count.
func (b *Builder) K() int { return b.opts.k }

// Metric returns the configured distance metric.
func (b *Builder) Metric() distance.Metric { return b.opts.metric }

// Build returns the directed k-nearest-neighbor edge list of nodes.
//
// Edges are grouped by source in node order; within a source they ascend by
// distance, and exactly equal distances keep the targets' node order. Each
// source gets min(k, len(nodes)-1) edges. An empty node set yields an empty
// edge list. On error no edges are returned.
func (b *Builder) Build(ctx context.Context, nodes model.NodeSet) ([]model.Edge, error) {
	start := time.Now()

	edges, err := b.build(ctx, nodes)

	b.opts.metricsCollector.RecordBuild(len(nodes), len(edges), time.Since(start), err)
	b.opts.logger.LogBuild(ctx, len(nodes), b.opts.k, len(edges), err)

	return edges, err
}

func (b *Builder) build(ctx context.Context, nodes model.NodeSet) ([]model.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.validate(nodes); err != nil {
		return nil, err
	}

	n := len(nodes)
	if n == 0 {
		return []model.Edge{}, nil
	}

	edges := make([]model.Edge, n*b.perNode(n))
	if err := b.computeRange(ctx, nodes, 0, n, edges, b.newProgress(n)); err != nil {
		return nil, err
	}
	return edges, nil
}

// BuildStream calls fn for every edge in the order Build would return them,
// without holding the full edge list in memory.
//
// Input is validated before the first call. An error from fn or from ctx
// stops the stream and is returned; edges already delivered stay delivered.
func (b *Builder) BuildStream(ctx context.Context, nodes model.NodeSet, fn func(model.Edge) error) error {
	start := time.Now()
	emitted := 0

	err := b.stream(ctx, nodes, func(e model.Edge) error {
		emitted++
		return fn(e)
	})
	if err != nil {
		emitted = 0
	}

	b.opts.metricsCollector.RecordBuild(len(nodes), emitted, time.Since(start), err)
	b.opts.logger.LogBuild(ctx, len(nodes), b.opts.k, emitted, err)

	return err
}

func (b *Builder) stream(ctx context.Context, nodes model.NodeSet, fn func(model.Edge) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.validate(nodes); err != nil {
		return err
	}

	n := len(nodes)
	if n == 0 {
		return nil
	}

	perNode := b.perNode(n)
	blockSize := streamBlockSize * b.opts.workers
	block := make([]model.Edge, min(blockSize, n)*perNode)
	progress := b.newProgress(n)

	for lo := 0; lo < n; lo += blockSize {
		hi := min(lo+blockSize, n)
		out := block[:(hi-lo)*perNode]

		if err := b.computeRange(ctx, nodes, lo, hi, out, progress); err != nil {
			return err
		}
		for _, e := range out {
			if err := fn(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Neighbors returns the edges from nodes[i] to its nearest neighbors, as
// Build would emit them for that source.
func (b *Builder) Neighbors(ctx context.Context, nodes model.NodeSet, i int) ([]model.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(nodes) {
		return nil, &NodeIndexError{Index: i, Len: len(nodes)}
	}
	if err := b.validate(nodes); err != nil {
		return nil, err
	}

	sel := queue.NewTopK(b.opts.k)
	cands := b.nearest(nodes, i, sel, nil)

	edges := make([]model.Edge, len(cands))
	b.fill(nodes, i, cands, edges)
	return edges, nil
}

func (b *Builder) validate(nodes model.NodeSet) error {
	var seen map[string]int
	if b.opts.rejectDuplicateIDs {
		seen = make(map[string]int, len(nodes))
	}

	for i, n := range nodes {
		if !n.Coord.IsFinite() {
			return &NonFiniteCoordinateError{Index: i, ID: n.ID, Coord: n.Coord}
		}
		if seen != nil {
			if first, ok := seen[n.ID]; ok {
				return &DuplicateIDError{ID: n.ID, First: first, Second: i}
			}
			seen[n.ID] = i
		}
	}
	return nil
}

// perNode is the number of edges every source emits in a set of n nodes.
func (b *Builder) perNode(n int) int {
	return min(b.opts.k, n-1)
}

// computeRange fills out with the edges of sources [lo, hi). Sources are
// split into contiguous chunks, one per worker; each worker writes only its
// own rows of out.
func (b *Builder) computeRange(ctx context.Context, nodes model.NodeSet, lo, hi int, out []model.Edge, progress *progress) error {
	perNode := b.perNode(len(nodes))
	total := hi - lo
	workers := min(b.opts.workers, total)
	chunk := (total + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		from := lo + w*chunk
		to := min(from+chunk, hi)
		if from >= to {
			break
		}

		g.Go(func() error {
			sel := queue.NewTopK(b.opts.k)
			cands := make([]queue.Candidate, 0, perNode)

			for i := from; i < to; i++ {
				if (i-from)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}

				cands = b.nearest(nodes, i, sel, cands[:0])
				row := out[(i-lo)*perNode : (i-lo+1)*perNode]
				b.fill(nodes, i, cands, row)

				progress.add(gctx, 1)
			}
			return nil
		})
	}

	return g.Wait()
}

// nearest appends the k nearest candidates of nodes[i] to dst, best first.
func (b *Builder) nearest(nodes model.NodeSet, i int, sel *queue.TopK, dst []queue.Candidate) []queue.Candidate {
	u := nodes[i].Coord
	for j := range nodes {
		if j == i {
			continue
		}
		sel.Offer(queue.Candidate{Node: j, Distance: b.distFn(u, nodes[j].Coord)})
	}
	return sel.Drain(dst)
}

func (b *Builder) fill(nodes model.NodeSet, i int, cands []queue.Candidate, row []model.Edge) {
	src := nodes[i].ID
	for j, c := range cands {
		row[j] = model.Edge{Source: src, Target: nodes[c.Node].ID, Distance: c.Distance}
	}
}

// progress reports processed sources through the logger, throttled to one
// line per interval across all workers.
type progress struct {
	logger *Logger
	total  int
	done   atomic.Int64
	every  *rate.Sometimes
}

func (b *Builder) newProgress(total int) *progress {
	if b.opts.progressInterval <= 0 {
		return nil
	}
	return &progress{
		logger: b.opts.logger,
		total:  total,
		every:  &rate.Sometimes{Interval: b.opts.progressInterval},
	}
}

func (p *progress) add(ctx context.Context, n int) {
	if p == nil {
		return
	}
	done := p.done.Add(int64(n))
	p.every.Do(func() {
		p.logger.LogProgress(ctx, int(done), p.total)
	})
}
