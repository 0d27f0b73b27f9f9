// Package kdtree implements an in-memory K-d tree over a fixed point set,
// answering nearest-neighbor, bounded k-nearest-neighbor and radius queries
// under squared Euclidean distance.
//
// The tree is built once from a slice of points by recursive positional
// median partitioning, cycling the split axis with depth. Nodes are stored
// in one arena sized to the input, so a build performs two allocations for
// node storage regardless of N and the height is at most floor(log2 N) + 1.
//
// Basic usage:
//
//	tree, err := kdtree.New[float64](kdtree.DefaultConfig(2))
//	err = tree.Build([]kdtree.Point[float64]{
//		{Coords: []float64{0, 0}, Data: "a"},
//		{Coords: []float64{2, 2}, Data: "b"},
//	})
//	nn := tree.NearestNeighbor(kdtree.Point[float64]{Coords: []float64{1, 0.5}})
//	// nn.Node.Point().Data == "a", nn.Distance2 == 1.25
//
//	knn, err := tree.KNearestNeighbors(target, 5)
//	for _, r := range knn.Sorted() { ... }
//
//	tree.RadiusQuery(target, 1.5, func(d2 float64, n *kdtree.Node[float64]) { ... })
//
// # Errors
//
// Querying an empty tree is a programming error and panics with
// [ErrEmptyTree]; check [Tree.Empty] first. Asking for k <= 0 neighbors is
// recoverable and returns [ErrInvalidK].
//
// # Concurrency
//
// Queries are read-only and may run from many goroutines at once, but the
// tree itself does no locking: Build and Reset must be serialized against
// queries by the caller. [Index] wraps a tree with a readers-writer lock for
// that purpose.
package kdtree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the global core tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
