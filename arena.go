package kdtree

import "golang.org/x/exp/constraints"

// Node holds a single point of a built tree. Nodes live in the tree's arena
// and are immutable once Build returns. A node reference stays readable after
// a rebuild but no longer belongs to the tree.
type Node[T constraints.Float] struct {
	point       Point[T]
	left, right *Node[T]
	axis        int
}

// Point returns the node's point. Its Coords alias arena storage and must not
// be modified.
func (n *Node[T]) Point() Point[T] { return n.point }

// Left returns the subtree whose coordinates on Axis are <= this node's, or nil.
func (n *Node[T]) Left() *Node[T] { return n.left }

// Right returns the subtree whose coordinates on Axis are >= this node's, or nil.
func (n *Node[T]) Right() *Node[T] { return n.right }

// Axis returns the split axis, depth mod K.
func (n *Node[T]) Axis() int { return n.axis }

// IsLeaf reports whether the node has no children.
func (n *Node[T]) IsLeaf() bool { return n.left == nil && n.right == nil }

// arena owns the node and coordinate storage of one build. Both slices are
// sized before the first place call and never grow, so the child pointers a
// parent stores into its children remain valid until clear.
type arena[T constraints.Float] struct {
	nodes  []Node[T]
	coords []T // flat row-major copy of every placed point
	dims   int
}

// reserve allocates room for exactly n points of dims coordinates each.
func (a *arena[T]) reserve(n, dims int) {
	a.nodes = make([]Node[T], 0, n)
	a.coords = make([]T, 0, n*dims)
	a.dims = dims
}

// place copies p into the arena and returns the new node.
func (a *arena[T]) place(p Point[T], axis int) *Node[T] {
	if len(a.nodes) == cap(a.nodes) {
		panic("kdtree: arena capacity exceeded")
	}
	if len(p.Coords) != a.dims {
		panic(ErrDimensionMismatch)
	}
	start := len(a.coords)
	a.coords = append(a.coords, p.Coords...)
	end := len(a.coords)
	a.nodes = append(a.nodes, Node[T]{
		point: Point[T]{Coords: a.coords[start:end:end], Data: p.Data},
		axis:  axis,
	})
	return &a.nodes[len(a.nodes)-1]
}

// clear drops the whole arena in one step. Nodes handed out earlier keep
// their memory alive but are detached from any tree.
func (a *arena[T]) clear() {
	a.nodes = nil
	a.coords = nil
}

func (a *arena[T]) len() int { return len(a.nodes) }
