// Package geoknn builds sparse proximity graphs over geographic nodes.
//
// Given nodes with longitude/latitude coordinates, geoknn computes
// great-circle distances between every pair and keeps, for each node, its K
// nearest neighbors as directed edges weighted in kilometers.
//
// # Quick Start
//
//	nodes := model.NodeSet{
//	    model.NewNode("A", 0, 0),
//	    model.NewNode("B", 0, 1),
//	    model.NewNode("C", 1, 0),
//	}
//	edges, err := geoknn.Build(ctx, nodes, geoknn.WithK(2))
//
// # Ordering
//
// Edges are grouped by source in input order. Each source's edges ascend by
// distance; exactly equal distances keep the targets' input order, so the
// output is deterministic for a given input and independent of the number of
// workers.
//
// # Errors
//
// Every rejected input matches ErrInvalidInput: non-positive K, non-finite
// coordinates, and (when enabled) duplicate node IDs. An empty node set is
// not an error and produces no edges.
//
// # Cost
//
// Construction is brute force: O(N²) distance evaluations and O(N·K) memory
// for the output. WithWorkers spreads sources across goroutines.
//
// # Related packages
//
//   - distance: haversine and equirectangular metrics
//   - table: CSV node filtering and edge list writers
//   - blobstore: local, in-memory, S3 and MinIO storage for inputs and outputs
package geoknn
