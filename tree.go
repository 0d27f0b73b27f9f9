package kdtree

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

// Tree is a K-d tree over a fixed point set. All nodes of one build live in a
// single arena sized to the number of input points; Build replaces the whole
// arena.
//
// Queries never modify the tree and may run concurrently with each other.
// Build and Reset must not overlap with queries; see [Index] for a guarded
// variant.
type Tree[T constraints.Float] struct {
	cfg   Config
	store arena[T]
	root  *Node[T]
}

// New returns an empty tree for cfg.Dims-dimensional points.
func New[T constraints.Float](cfg Config) (*Tree[T], error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &Tree[T]{cfg: cfg}, nil
}

// Build constructs the tree from points, discarding any previous tree.
// Every point must have exactly Dims coordinates; on a mismatch the previous
// tree is left untouched. Coordinates are copied, so callers may reuse
// points afterwards.
func (t *Tree[T]) Build(points []Point[T]) error {
	for i := range points {
		if len(points[i].Coords) != t.cfg.Dims {
			return fmt.Errorf("%w: point %d has %d coordinates, want %d",
				ErrDimensionMismatch, i, len(points[i].Coords), t.cfg.Dims)
		}
		if slices.ContainsFunc(points[i].Coords, isNaN[T]) {
			return fmt.Errorf("%w: point %d has a NaN coordinate", ErrInvalidPoint, i)
		}
	}

	t.Reset()
	if len(points) == 0 {
		tracer().Debugf("kdtree: built empty tree")
		return nil
	}

	t.store.reserve(len(points), t.cfg.Dims)
	b := newBuilder(points, &t.store, t.cfg.Dims)
	t.root = b.build(0, len(points), 0)

	tracer().Debugf("kdtree: built %d nodes, dims=%d", t.store.len(), t.cfg.Dims)

	if t.cfg.CheckInvariants {
		if err := t.Validate(); err != nil {
			tracer().Errorf("kdtree: invariant check failed: %v", err)
			t.Reset()
			return err
		}
	}
	return nil
}

// Reset discards all nodes. Node references obtained earlier are detached.
func (t *Tree[T]) Reset() {
	if t.root != nil {
		tracer().Debugf("kdtree: releasing arena of %d nodes", t.store.len())
	}
	t.store.clear()
	t.root = nil
}

// Len returns the number of points in the tree.
func (t *Tree[T]) Len() int { return t.store.len() }

// Dims returns K.
func (t *Tree[T]) Dims() int { return t.cfg.Dims }

// Empty reports whether the tree has no nodes. Queries panic on an empty tree.
func (t *Tree[T]) Empty() bool { return t.root == nil }

// Root returns the root node, or nil for an empty tree.
func (t *Tree[T]) Root() *Node[T] { return t.root }

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	if t.root == nil {
		return 0
	}
	type frame struct {
		n     *Node[T]
		depth int
	}
	height := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, f.depth)
		if f.n.left != nil {
			stack = append(stack, frame{f.n.left, f.depth + 1})
		}
		if f.n.right != nil {
			stack = append(stack, frame{f.n.right, f.depth + 1})
		}
	}
	return height
}

// checkTarget reports ErrEmptyTree or ErrDimensionMismatch for a query target.
func (t *Tree[T]) checkTarget(target Point[T]) error {
	if t.root == nil {
		return ErrEmptyTree
	}
	if len(target.Coords) != t.cfg.Dims {
		return fmt.Errorf("%w: target has %d coordinates, want %d", ErrDimensionMismatch, len(target.Coords), t.cfg.Dims)
	}
	return nil
}

// mustQuery panics with the checkTarget error, if any.
func (t *Tree[T]) mustQuery(target Point[T]) {
	if err := t.checkTarget(target); err != nil {
		panic(err)
	}
}
