package kdtree

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// QueryResult pairs a node with its squared distance to the query target.
type QueryResult[T constraints.Float] struct {
	Distance2 T
	Node      *Node[T]
}

// Neighbors is a max-heap of QueryResult (largest distance on top) used as a
// bounded priority queue for k-nearest-neighbor queries. Element order is
// only the heap order; use Sorted for ascending distance.
type Neighbors[T constraints.Float] []QueryResult[T]

func (h Neighbors[T]) Len() int           { return len(h) }
func (h Neighbors[T]) Less(i, j int) bool { return h[i].Distance2 > h[j].Distance2 } // max-heap
func (h Neighbors[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *Neighbors[T]) Push(x any)        { *h = append(*h, x.(QueryResult[T])) }
func (h *Neighbors[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Worst returns the farthest kept result. It panics on an empty heap.
func (h Neighbors[T]) Worst() QueryResult[T] { return h[0] }

// Sorted returns the results in ascending distance order by repeatedly
// removing the worst entry from a copy. h is left unchanged.
func (h Neighbors[T]) Sorted() []QueryResult[T] {
	work := make(Neighbors[T], len(h))
	copy(work, h)
	heap.Init(&work)
	out := make([]QueryResult[T], len(h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&work).(QueryResult[T])
	}
	return out
}

// offer keeps item if the heap holds fewer than k entries or item beats the
// current worst, evicting the worst in the latter case.
func (h *Neighbors[T]) offer(item QueryResult[T], k int) {
	if h.Len() < k {
		heap.Push(h, item)
		return
	}
	if item.Distance2 < (*h)[0].Distance2 {
		(*h)[0] = item
		heap.Fix(h, 0)
	}
}
