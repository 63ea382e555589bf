package geoknn

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/hupe1980/geoknn/distance"
)

// DefaultK is the neighbor count used when WithK is not given.
const DefaultK = 10

// DefaultProgressInterval is the minimum time between progress log lines.
const DefaultProgressInterval = 5 * time.Second

type options struct {
	k                  int
	workers            int
	metric             distance.Metric
	rejectDuplicateIDs bool
	progressInterval   time.Duration
	metricsCollector   MetricsCollector
	logger             *Logger
}

// Option configures graph construction.
type Option func(*options)

// WithK sets the number of nearest neighbors kept per node.
// Values <= 0 make the build fail with ErrInvalidInput.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithWorkers sets how many goroutines compute neighbor lists.
// Output is identical for every worker count.
// If n <= 0, runtime.GOMAXPROCS(0) workers are used.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithMetric selects the distance metric. Default: distance.MetricHaversine.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithRejectDuplicateIDs makes builds fail when two nodes share an ID.
//
// By default duplicates are accepted and produce edges that cannot be told
// apart in the output.
func WithRejectDuplicateIDs(reject bool) Option {
	return func(o *options) {
		o.rejectDuplicateIDs = reject
	}
}

// WithProgressInterval sets the minimum interval between progress log
// lines during a build. Zero disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithMetricsCollector configures a metrics collector for monitoring builds.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &geoknn.BasicMetricsCollector{}
//	b, _ := geoknn.NewBuilder(geoknn.WithMetricsCollector(metrics))
//	// ... build ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Edges: %d\n", stats.BuildCount, stats.EdgesEmitted)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for builds.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geoknn.NewJSONLogger(os.Stderr, slog.LevelInfo)
//	edges, _ := geoknn.Build(ctx, nodes, geoknn.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel logs text at level to stderr.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(os.Stderr, level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		workers:          1,
		metric:           distance.MetricHaversine,
		progressInterval: DefaultProgressInterval,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
