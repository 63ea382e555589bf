package geoknn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each graph build.
	// nodes is the input size, edges the number emitted (0 on error).
	RecordBuild(nodes, edges int, duration time.Duration, err error)

	// RecordFilter is called after the record filter produced a node set.
	RecordFilter(rows, kept int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFilter(int, int, time.Duration)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	NodesProcessed  atomic.Int64
	EdgesEmitted    atomic.Int64
	FilterCount     atomic.Int64
	RowsRead        atomic.Int64
	RowsKept        atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(nodes, edges int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.NodesProcessed.Add(int64(nodes))
	b.EdgesEmitted.Add(int64(edges))
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(rows, kept int, _ time.Duration) {
	b.FilterCount.Add(1)
	b.RowsRead.Add(int64(rows))
	b.RowsKept.Add(int64(kept))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildAvgNanos:  b.getAvgBuildNanos(),
		NodesProcessed: b.NodesProcessed.Load(),
		EdgesEmitted:   b.EdgesEmitted.Load(),
		FilterCount:    b.FilterCount.Load(),
		RowsRead:       b.RowsRead.Load(),
		RowsKept:       b.RowsKept.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBuildNanos() int64 {
	count := b.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.BuildTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildAvgNanos  int64
	NodesProcessed int64
	EdgesEmitted   int64
	FilterCount    int64
	RowsRead       int64
	RowsKept       int64
}
