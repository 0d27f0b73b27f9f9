package kdtree

import (
	"fmt"
	"math"
	"math/bits"
	"slices"
)

// Validate checks the structural invariants of a built tree:
//   - every node's axis is its depth mod K
//   - every point in a left subtree is <= its ancestor on the ancestor's axis,
//     every point in a right subtree is >=
//   - the tree holds exactly Len() nodes
//   - the height does not exceed floor(log2 N) + 1
//
// The walk uses an explicit stack, so it is safe on arbitrarily shaped trees.
func (t *Tree[T]) Validate() error {
	n := t.store.len()
	if t.root == nil {
		if n != 0 {
			return fmt.Errorf("kdtree: empty tree holds %d arena nodes", n)
		}
		return nil
	}

	type frame struct {
		node   *Node[T]
		depth  int
		lo, hi []T // bounds inherited from ancestors, per axis
	}
	dims := t.cfg.Dims
	lo := make([]T, dims)
	hi := make([]T, dims)
	for d := range dims {
		lo[d] = T(math.Inf(-1))
		hi[d] = T(math.Inf(1))
	}

	count, height := 0, 0
	stack := []frame{{node: t.root, lo: lo, hi: hi}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count++
		if count > n {
			return fmt.Errorf("kdtree: reachable nodes exceed arena size %d", n)
		}
		height = max(height, f.depth+1)

		nd := f.node
		if want := f.depth % dims; nd.axis != want {
			return fmt.Errorf("kdtree: node at depth %d has axis %d, want %d", f.depth, nd.axis, want)
		}
		c := nd.point.Coords
		if len(c) != dims {
			return fmt.Errorf("%w: node at depth %d has %d coordinates", ErrDimensionMismatch, f.depth, len(c))
		}
		for d := range c {
			if isNaN(c[d]) {
				return fmt.Errorf("%w: node at depth %d has NaN on axis %d", ErrInvalidPoint, f.depth, d)
			}
			if c[d] < f.lo[d] || c[d] > f.hi[d] {
				return fmt.Errorf("kdtree: node at depth %d violates split on axis %d: %v not in [%v, %v]",
					f.depth, d, c[d], f.lo[d], f.hi[d])
			}
		}

		a := nd.axis
		if nd.left != nil {
			childHi := slices.Clone(f.hi)
			childHi[a] = min(childHi[a], c[a])
			stack = append(stack, frame{node: nd.left, depth: f.depth + 1, lo: f.lo, hi: childHi})
		}
		if nd.right != nil {
			childLo := slices.Clone(f.lo)
			childLo[a] = max(childLo[a], c[a])
			stack = append(stack, frame{node: nd.right, depth: f.depth + 1, lo: childLo, hi: f.hi})
		}
	}

	if count != n {
		return fmt.Errorf("kdtree: reached %d nodes, arena holds %d", count, n)
	}
	if limit := bits.Len(uint(n)); height > limit {
		return fmt.Errorf("kdtree: height %d exceeds %d for %d nodes", height, limit, n)
	}
	return nil
}
