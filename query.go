package kdtree

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// All three queries descend first into the child on the target's side of the
// splitting plane, then into the far child unless bound < border², where
// border is the target's signed offset from the plane on the node's axis.
// The far side is only skipped when it provably cannot hold a qualifying
// point; equality still descends.

// NearestNeighbor returns the point closest to target. Ties resolve to any
// equidistant point. It panics with ErrEmptyTree on an empty tree.
func (t *Tree[T]) NearestNeighbor(target Point[T]) QueryResult[T] {
	t.mustQuery(target)
	best := QueryResult[T]{Distance2: T(math.Inf(1))}
	nearest(t.root, target.Coords, &best)
	if best.Node == nil {
		// Every distance overflowed to +Inf or was NaN; any node is as good.
		best = QueryResult[T]{Distance2: Dist2(target.Coords, t.root.point.Coords), Node: t.root}
	}
	return best
}

func nearest[T constraints.Float](n *Node[T], target []T, best *QueryResult[T]) {
	if n == nil {
		return
	}
	d := Dist2(target, n.point.Coords)
	if d < best.Distance2 {
		best.Distance2 = d
		best.Node = n
	}

	border := target[n.axis] - n.point.Coords[n.axis]
	near, far := n.left, n.right
	if border >= 0 {
		near, far = n.right, n.left
	}
	nearest(near, target, best)
	if border*border <= best.Distance2 {
		nearest(far, target, best)
	}
}

// KNearestNeighbors returns the min(k, Len()) points closest to target as a
// max-heap. k <= 0 yields ErrInvalidK. It panics with ErrEmptyTree on an
// empty tree.
func (t *Tree[T]) KNearestNeighbors(target Point[T], k int) (Neighbors[T], error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	t.mustQuery(target)
	h := make(Neighbors[T], 0, min(k, t.Len()))
	kNearest(t.root, target.Coords, k, &h)
	return h, nil
}

func kNearest[T constraints.Float](n *Node[T], target []T, k int, h *Neighbors[T]) {
	if n == nil {
		return
	}
	h.offer(QueryResult[T]{Distance2: Dist2(target, n.point.Coords), Node: n}, k)

	border := target[n.axis] - n.point.Coords[n.axis]
	near, far := n.left, n.right
	if border >= 0 {
		near, far = n.right, n.left
	}
	kNearest(near, target, k, h)
	if h.Len() < k || border*border <= h.Worst().Distance2 {
		kNearest(far, target, k, h)
	}
}

// RadiusQuery calls visit once for every point strictly closer than radius
// to target, in traversal order. visit runs synchronously and must not
// rebuild the tree. A negative radius visits nothing. It panics with
// ErrEmptyTree on an empty tree.
func (t *Tree[T]) RadiusQuery(target Point[T], radius T, visit func(distance2 T, n *Node[T])) {
	t.mustQuery(target)
	if radius < 0 {
		return
	}
	within(t.root, target.Coords, radius*radius, visit)
}

func within[T constraints.Float](n *Node[T], target []T, radius2 T, visit func(T, *Node[T])) {
	if n == nil {
		return
	}
	d := Dist2(target, n.point.Coords)
	if d < radius2 {
		visit(d, n)
	}

	border := target[n.axis] - n.point.Coords[n.axis]
	near, far := n.left, n.right
	if border >= 0 {
		near, far = n.right, n.left
	}
	within(near, target, radius2, visit)
	if border*border <= radius2 {
		within(far, target, radius2, visit)
	}
}

// Within collects the RadiusQuery matches sorted by ascending distance.
func (t *Tree[T]) Within(target Point[T], radius T) []QueryResult[T] {
	var out []QueryResult[T]
	t.RadiusQuery(target, radius, func(d T, n *Node[T]) {
		out = append(out, QueryResult[T]{Distance2: d, Node: n})
	})
	slices.SortFunc(out, func(a, b QueryResult[T]) int {
		return cmp.Compare(a.Distance2, b.Distance2)
	})
	return out
}
