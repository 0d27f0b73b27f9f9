package kdtree

import (
	"math/rand/v2"

	"golang.org/x/exp/constraints"
)

// builder partitions an index permutation over the input points. Point data
// is only copied when a median is placed into the arena.
type builder[T constraints.Float] struct {
	points []Point[T]
	idx    []int
	store  *arena[T]
	dims   int
}

func newBuilder[T constraints.Float](points []Point[T], store *arena[T], dims int) *builder[T] {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	return &builder[T]{points: points, idx: idx, store: store, dims: dims}
}

// build places the positional median of idx[lo:hi] on axis depth mod K and
// recurses on both halves. An empty range yields a nil subtree.
func (b *builder[T]) build(lo, hi, depth int) *Node[T] {
	if lo >= hi {
		return nil
	}
	axis := depth % b.dims
	mid := lo + (hi-lo)/2
	b.selectNth(lo, hi, mid, axis)

	node := b.store.place(b.points[b.idx[mid]], axis)
	node.left = b.build(lo, mid, depth+1)
	node.right = b.build(mid+1, hi, depth+1)
	return node
}

func (b *builder[T]) coord(i, axis int) T {
	return b.points[b.idx[i]].Coords[axis]
}

// selectNth reorders idx[lo:hi] so that idx[k] holds the element of rank k on
// axis, everything before it is <= and everything after it is >=.
// Quickselect with a random pivot and a three-way partition, so runs of equal
// coordinates finish in one pass instead of degrading to quadratic time.
func (b *builder[T]) selectNth(lo, hi, k, axis int) {
	for hi-lo > 1 {
		pivot := b.coord(lo+rand.IntN(hi-lo), axis)
		lt, gt := b.partition3(lo, hi, pivot, axis)
		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return
		}
	}
}

// partition3 splits idx[lo:hi] into [lo,lt) < pivot, [lt,gt) == pivot and
// [gt,hi) > pivot. Values that compare neither less nor greater (NaN) land in
// the middle band.
func (b *builder[T]) partition3(lo, hi int, pivot T, axis int) (lt, gt int) {
	lt, gt = lo, hi
	for i := lo; i < gt; {
		v := b.coord(i, axis)
		switch {
		case v < pivot:
			b.idx[lt], b.idx[i] = b.idx[i], b.idx[lt]
			lt++
			i++
		case v > pivot:
			gt--
			b.idx[i], b.idx[gt] = b.idx[gt], b.idx[i]
		default:
			i++
		}
	}
	return lt, gt
}
