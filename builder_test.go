package geoknn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/hupe1980/geoknn/distance"
	"github.com/hupe1980/geoknn/model"
	"github.com/hupe1980/geoknn/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetsOf(edges []model.Edge, source string) []string {
	var out []string
	for _, e := range edges {
		if e.Source == source {
			out = append(out, e.Target)
		}
	}
	return out
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("FourNodeScenario", func(t *testing.T) {
		nodes := model.NodeSet{
			model.NewNode("A", 0, 0),
			model.NewNode("B", 0, 1),
			model.NewNode("C", 1, 0),
			model.NewNode("D", 90, 0),
		}

		edges, err := Build(ctx, nodes, WithK(2))
		require.NoError(t, err)
		require.Len(t, edges, 8)

		// B and C are exactly one degree away from A; the tie keeps input order.
		assert.Equal(t, []string{"B", "C"}, targetsOf(edges, "A"))
		assert.InDelta(t, 111.19492664455873, edges[0].Distance, 1e-9)
		assert.Equal(t, edges[0].Distance, edges[1].Distance)

		assert.Equal(t, []string{"A", "C"}, targetsOf(edges, "B"))
		assert.Equal(t, []string{"A", "B"}, targetsOf(edges, "C"))
		assert.NotContains(t, targetsOf(edges, "A"), "D")

		// C is 89° from D; A and B are both a quarter circle away.
		assert.Equal(t, "C", targetsOf(edges, "D")[0])
		assert.InDelta(t, distance.EarthRadiusKm*math.Pi*89/180, edges[6].Distance, 1e-6)
		assert.InDelta(t, distance.EarthRadiusKm*math.Pi/2, edges[7].Distance, 1e-6)
	})

	t.Run("NearDegenerateTriangle", func(t *testing.T) {
		nodes := model.NodeSet{
			model.NewNode("A", 0, 0),
			model.NewNode("B", 10, 0),
			model.NewNode("C", 4.9, 0.001),
		}

		edges, err := Build(ctx, nodes, WithK(2))
		require.NoError(t, err)

		assert.Equal(t, []string{"C", "B"}, targetsOf(edges, "A"))
		assert.Equal(t, []string{"C", "A"}, targetsOf(edges, "B"))
		assert.Equal(t, []string{"A", "B"}, targetsOf(edges, "C"))
	})

	t.Run("EmitsKPerNode", func(t *testing.T) {
		nodes := testutil.NewRNG(11).UniformNodes(50)
		k := 7

		edges, err := Build(ctx, nodes, WithK(k))
		require.NoError(t, err)
		require.Len(t, edges, len(nodes)*k)

		for i, n := range nodes {
			row := edges[i*k : (i+1)*k]
			seen := make(map[string]bool, k)
			for j, e := range row {
				assert.Equal(t, n.ID, e.Source)
				assert.NotEqual(t, n.ID, e.Target)
				assert.False(t, seen[e.Target], "duplicate target %s", e.Target)
				assert.GreaterOrEqual(t, e.Distance, 0.0)
				if j > 0 {
					assert.GreaterOrEqual(t, e.Distance, row[j-1].Distance)
				}
				seen[e.Target] = true
			}
		}
	})

	t.Run("FewerNodesThanK", func(t *testing.T) {
		nodes := testutil.NewRNG(5).UniformNodes(4)

		edges, err := Build(ctx, nodes)
		require.NoError(t, err)
		require.Len(t, edges, 4*3)
		for _, n := range nodes {
			assert.Len(t, targetsOf(edges, n.ID), 3)
		}
	})

	t.Run("SingleNode", func(t *testing.T) {
		edges, err := Build(ctx, model.NodeSet{model.NewNode("solo", 1, 1)})
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("Empty", func(t *testing.T) {
		edges, err := Build(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, edges)
		assert.Empty(t, edges)
	})

	t.Run("MatchesReference", func(t *testing.T) {
		nodes := testutil.NewRNG(99).ClusteredNodes(300, 4, 0.3)

		edges, err := Build(ctx, nodes, WithK(6))
		require.NoError(t, err)
		assert.Equal(t, testutil.ExactEdges(nodes, 6), edges)
	})

	t.Run("TiesKeepInputOrder", func(t *testing.T) {
		// Every satellite sits exactly one degree of latitude from the hub.
		nodes := model.NodeSet{
			model.NewNode("hub", 0, 0),
			model.NewNode("s3", 0, 1),
			model.NewNode("s1", 0, -1),
			model.NewNode("s2", 0, 1),
		}

		edges, err := Build(ctx, nodes, WithK(3))
		require.NoError(t, err)
		assert.Equal(t, []string{"s3", "s1", "s2"}, targetsOf(edges, "hub"))
	})
}

func TestBuildDeterminism(t *testing.T) {
	ctx := context.Background()
	nodes := testutil.NewRNG(2024).BoxNodes(400, -10, 10, 40, 55)

	first, err := Build(ctx, nodes, WithK(5))
	require.NoError(t, err)

	second, err := Build(ctx, nodes, WithK(5))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, workers := range []int{2, 3, 8, 1000} {
		got, err := Build(ctx, nodes, WithK(5), WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, first, got, "workers=%d", workers)
	}
}

func TestBuildInvalidInput(t *testing.T) {
	ctx := context.Background()

	t.Run("ZeroK", func(t *testing.T) {
		_, err := Build(ctx, model.NodeSet{model.NewNode("a", 0, 0)}, WithK(0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("NegativeK", func(t *testing.T) {
		_, err := NewBuilder(WithK(-3))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ZeroKOnEmptySet", func(t *testing.T) {
		_, err := Build(ctx, nil, WithK(0))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	for _, c := range []model.Coordinate{
		{Lon: math.NaN(), Lat: 0},
		{Lon: 0, Lat: math.Inf(1)},
		{Lon: math.Inf(-1), Lat: math.NaN()},
	} {
		t.Run("NonFinite", func(t *testing.T) {
			nodes := model.NodeSet{
				model.NewNode("ok", 0, 0),
				{ID: "bad", Coord: c},
			}

			edges, err := Build(ctx, nodes)
			require.Error(t, err)
			assert.Nil(t, edges)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var nfe *NonFiniteCoordinateError
			require.True(t, errors.As(err, &nfe))
			assert.Equal(t, 1, nfe.Index)
			assert.Equal(t, "bad", nfe.ID)
		})
	}

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := NewBuilder(WithMetric(distance.Metric(42)))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestBuildDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	nodes := model.NodeSet{
		model.NewNode("x", 0, 0),
		model.NewNode("y", 0, 1),
		model.NewNode("x", 0, 2),
	}

	t.Run("AcceptedByDefault", func(t *testing.T) {
		edges, err := Build(ctx, nodes, WithK(1))
		require.NoError(t, err)
		assert.Len(t, edges, 3)
	})

	t.Run("Rejected", func(t *testing.T) {
		_, err := Build(ctx, nodes, WithK(1), WithRejectDuplicateIDs(true))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)

		var dup *DuplicateIDError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "x", dup.ID)
		assert.Equal(t, 0, dup.First)
		assert.Equal(t, 2, dup.Second)
	})
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nodes := testutil.NewRNG(1).UniformNodes(10)

	edges, err := Build(ctx, nodes)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, edges)

	b, err := NewBuilder()
	require.NoError(t, err)
	assert.ErrorIs(t, b.BuildStream(ctx, nodes, func(model.Edge) error { return nil }), context.Canceled)
}

func TestBuildStream(t *testing.T) {
	ctx := context.Background()
	// More sources than one stream block so several blocks are emitted.
	nodes := testutil.NewRNG(8).UniformNodes(3*streamBlockSize + 17)

	b, err := NewBuilder(WithK(3), WithWorkers(1))
	require.NoError(t, err)

	want, err := b.Build(ctx, nodes)
	require.NoError(t, err)

	t.Run("MatchesBuild", func(t *testing.T) {
		var got []model.Edge
		err := b.BuildStream(ctx, nodes, func(e model.Edge) error {
			got = append(got, e)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Parallel", func(t *testing.T) {
		pb, err := NewBuilder(WithK(3), WithWorkers(4))
		require.NoError(t, err)

		var got []model.Edge
		require.NoError(t, pb.BuildStream(ctx, nodes, func(e model.Edge) error {
			got = append(got, e)
			return nil
		}))
		assert.Equal(t, want, got)
	})

	t.Run("CallbackError", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := b.BuildStream(ctx, nodes, func(model.Edge) error {
			calls++
			if calls == 5 {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 5, calls)
	})

	t.Run("ValidatesFirst", func(t *testing.T) {
		bad := append(model.NodeSet{}, nodes[:3]...)
		bad = append(bad, model.Node{ID: "nan", Coord: model.Coordinate{Lon: math.NaN()}})

		called := false
		err := b.BuildStream(ctx, bad, func(model.Edge) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.False(t, called)
	})
}

func TestNeighbors(t *testing.T) {
	ctx := context.Background()
	nodes := testutil.NewRNG(21).UniformNodes(40)

	b, err := NewBuilder(WithK(4))
	require.NoError(t, err)

	all, err := b.Build(ctx, nodes)
	require.NoError(t, err)

	got, err := b.Neighbors(ctx, nodes, 9)
	require.NoError(t, err)
	assert.Equal(t, all[9*4:10*4], got)

	_, err = b.Neighbors(ctx, nodes, len(nodes))
	var ie *NodeIndexError
	require.True(t, errors.As(err, &ie))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Neighbors(ctx, nodes, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuilderAccessors(t *testing.T) {
	b, err := NewBuilder(WithMetric(distance.MetricEquirectangular))
	require.NoError(t, err)
	assert.Equal(t, DefaultK, b.K())
	assert.Equal(t, distance.MetricEquirectangular, b.Metric())
}

func TestBuildMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	nodes := testutil.NewRNG(3).UniformNodes(12)

	b, err := NewBuilder(WithK(2), WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = b.Build(ctx, nodes)
	require.NoError(t, err)
	_, err = b.Build(ctx, model.NodeSet{{ID: "x", Coord: model.Coordinate{Lat: math.NaN()}}})
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
	assert.Equal(t, int64(12), stats.NodesProcessed)
	assert.Equal(t, int64(24), stats.EdgesEmitted)

	metrics.RecordFilter(10, 7, time.Millisecond)
	stats = metrics.GetStats()
	assert.Equal(t, int64(1), stats.FilterCount)
	assert.Equal(t, int64(10), stats.RowsRead)
	assert.Equal(t, int64(7), stats.RowsKept)
}

func TestBuildLogging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	nodes := testutil.NewRNG(4).UniformNodes(20)
	_, err := Build(ctx, nodes, WithK(3), WithLogger(logger), WithProgressInterval(time.Hour))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "graph build completed")
	assert.Contains(t, out, "edges=60")
	// The first progress report fires immediately, the rest are throttled.
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("graph build progress")))

	buf.Reset()
	_, err = Build(ctx, model.NodeSet{{ID: "x", Coord: model.Coordinate{Lon: math.Inf(1)}}}, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "graph build failed")
}

func BenchmarkBuild(b *testing.B) {
	ctx := context.Background()
	nodes := testutil.NewRNG(1).UniformNodes(2000)

	for _, workers := range []int{1, 4} {
		builder, err := NewBuilder(WithK(10), WithWorkers(workers), WithProgressInterval(0))
		require.NoError(b, err)

		b.Run(fmt.Sprintf("Workers%d", workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := builder.Build(ctx, nodes); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
