package kdtree

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// Index guards a Tree with a readers-writer lock so that rebuilds can run
// alongside queries. Rebuild constructs the new tree outside the lock and
// swaps it in; queries see either the old or the new tree, never a partial
// one. Index queries report ErrEmptyTree and ErrDimensionMismatch as errors
// instead of panicking.
type Index[T constraints.Float] struct {
	mu      sync.RWMutex
	cfg     Config
	tree    *Tree[T]
	metrics *Metrics
}

// NewIndex returns an empty index. metrics may be nil.
func NewIndex[T constraints.Float](cfg Config, metrics *Metrics) (*Index[T], error) {
	tree, err := New[T](cfg)
	if err != nil {
		return nil, err
	}
	return &Index[T]{cfg: tree.cfg, tree: tree, metrics: metrics}, nil
}

// Rebuild replaces the indexed point set. On error the previous tree stays
// in place.
func (x *Index[T]) Rebuild(points []Point[T]) error {
	start := time.Now()
	next, err := New[T](x.cfg)
	if err != nil {
		return err
	}
	if err := next.Build(points); err != nil {
		return err
	}

	x.mu.Lock()
	x.tree = next
	x.mu.Unlock()

	elapsed := time.Since(start)
	x.metrics.observeBuild(elapsed, next.Len())
	tracer().Infof("kdtree: index rebuilt with %d points in %v", next.Len(), elapsed)
	return nil
}

// Len returns the number of indexed points.
func (x *Index[T]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Len()
}

// NearestNeighbor returns the point closest to target.
func (x *Index[T]) NearestNeighbor(target Point[T]) (QueryResult[T], error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.tree.checkTarget(target); err != nil {
		return QueryResult[T]{}, err
	}
	x.metrics.observeQuery(queryNearest, 1)
	return x.tree.NearestNeighbor(target), nil
}

// KNearestNeighbors returns the min(k, Len()) points closest to target as a
// max-heap.
func (x *Index[T]) KNearestNeighbors(target Point[T], k int) (Neighbors[T], error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.tree.checkTarget(target); err != nil {
		return nil, err
	}
	x.metrics.observeQuery(queryKNN, 1)
	return x.tree.KNearestNeighbors(target, k)
}

// RadiusQuery streams every point strictly closer than radius to visit.
// The read lock is held while visit runs, so visit must not call Rebuild.
func (x *Index[T]) RadiusQuery(target Point[T], radius T, visit func(distance2 T, n *Node[T])) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.tree.checkTarget(target); err != nil {
		return err
	}
	x.metrics.observeQuery(queryRadius, 1)
	x.tree.RadiusQuery(target, radius, visit)
	return nil
}

// Within collects the points strictly closer than radius to target, sorted
// by ascending distance.
func (x *Index[T]) Within(target Point[T], radius T) ([]QueryResult[T], error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := x.tree.checkTarget(target); err != nil {
		return nil, err
	}
	x.metrics.observeQuery(queryRadius, 1)
	return x.tree.Within(target, radius), nil
}

// NearestNeighborBatch is Tree.NearestNeighborBatch under the read lock.
func (x *Index[T]) NearestNeighborBatch(ctx context.Context, targets []Point[T]) ([]QueryResult[T], error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out, err := x.tree.NearestNeighborBatch(ctx, targets)
	if err == nil {
		x.metrics.observeQuery(queryNearest, len(targets))
	}
	return out, err
}

// KNearestNeighborsBatch is Tree.KNearestNeighborsBatch under the read lock.
func (x *Index[T]) KNearestNeighborsBatch(ctx context.Context, targets []Point[T], k int) ([]Neighbors[T], error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out, err := x.tree.KNearestNeighborsBatch(ctx, targets, k)
	if err == nil {
		x.metrics.observeQuery(queryKNN, len(targets))
	}
	return out, err
}
