package geoknn_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/model"
)

// Example_build demonstrates building a 2-nearest-neighbor graph.
func Example_build() {
	nodes := model.NodeSet{
		model.NewNode("A", 0, 0),
		model.NewNode("B", 0, 1),
		model.NewNode("C", 1, 0),
		model.NewNode("D", 90, 0),
	}

	edges, err := geoknn.Build(context.Background(), nodes, geoknn.WithK(2))
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range edges[:2] {
		fmt.Printf("%s -> %s %.2f km\n", e.Source, e.Target, e.Distance)
	}
	// Output:
	// A -> B 111.19 km
	// A -> C 111.19 km
}

// Example_metrics demonstrates collecting build metrics.
func Example_metrics() {
	metrics := &geoknn.BasicMetricsCollector{}

	b, err := geoknn.NewBuilder(
		geoknn.WithK(1),
		geoknn.WithWorkers(2),
		geoknn.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	nodes := model.NodeSet{
		model.NewIntNode(1, 13.40, 52.52),
		model.NewIntNode(2, 2.35, 48.86),
		model.NewIntNode(3, -0.13, 51.51),
	}
	if _, err := b.Build(context.Background(), nodes); err != nil {
		log.Fatal(err)
	}

	stats := metrics.GetStats()
	fmt.Println(stats.BuildCount, stats.EdgesEmitted)
	// Output: 1 3
}
