package kdtree

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// NearestNeighborBatch runs NearestNeighbor for every target using
// Config.Workers goroutines. Result i belongs to targets[i].
//
// Unlike the single-target query, an empty tree or a malformed target is
// reported as an error. Cancelling ctx stops the workers between targets.
func (t *Tree[T]) NearestNeighborBatch(ctx context.Context, targets []Point[T]) ([]QueryResult[T], error) {
	if err := t.checkBatch(targets); err != nil {
		return nil, err
	}
	out := make([]QueryResult[T], len(targets))
	err := t.parallelFor(ctx, len(targets), func(i int) {
		out[i] = t.NearestNeighbor(targets[i])
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// KNearestNeighborsBatch runs KNearestNeighbors for every target using
// Config.Workers goroutines. Result i belongs to targets[i].
func (t *Tree[T]) KNearestNeighborsBatch(ctx context.Context, targets []Point[T], k int) ([]Neighbors[T], error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if err := t.checkBatch(targets); err != nil {
		return nil, err
	}
	out := make([]Neighbors[T], len(targets))
	err := t.parallelFor(ctx, len(targets), func(i int) {
		h := make(Neighbors[T], 0, min(k, t.Len()))
		kNearest(t.root, targets[i].Coords, k, &h)
		out[i] = h
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tree[T]) checkBatch(targets []Point[T]) error {
	if t.root == nil {
		return ErrEmptyTree
	}
	for i := range targets {
		if len(targets[i].Coords) != t.cfg.Dims {
			return fmt.Errorf("%w: target %d has %d coordinates, want %d",
				ErrDimensionMismatch, i, len(targets[i].Coords), t.cfg.Dims)
		}
	}
	return nil
}

// parallelFor calls fn(i) for i in [0, n). Targets are split into contiguous
// ranges, one per worker; ranges don't overlap, so fn may write its own slot
// of a shared result slice without synchronization.
func (t *Tree[T]) parallelFor(ctx context.Context, n int, fn func(i int)) error {
	workers := t.cfg.Workers
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	perWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := min(start+perWorker, n)
		if start >= n {
			break
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
