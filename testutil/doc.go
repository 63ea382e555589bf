// Package testutil provides testing utilities for geoknn.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random nodes, computing reference
// nearest-neighbor lists by full sorting, and rendering node tables.
//
// # Random Node Generation
//
//	rng := testutil.NewRNG(seed)
//	nodes := rng.UniformNodes(1000)            // uniform over the sphere
//	nodes = rng.ClusteredNodes(1000, 8, 0.5)   // 8 clusters, 0.5° spread
//
// # Reference Graph
//
//	edges := testutil.ExactEdges(nodes, k)
package testutil
