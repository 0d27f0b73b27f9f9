package kdtree

import "golang.org/x/exp/constraints"

// Point is a K-dimensional coordinate vector with an opaque caller tag.
// Data is carried through to query results and never read by the tree.
// Coordinates must not be NaN; Build rejects such points.
type Point[T constraints.Float] struct {
	Coords []T
	Data   any
}

func isNaN[T constraints.Float](v T) bool { return v != v }

// Dims returns the number of coordinates in p.
func (p Point[T]) Dims() int { return len(p.Coords) }

// Dist2 returns the squared Euclidean distance between a and b.
// Both slices must have the same length.
func Dist2[T constraints.Float](a, b []T) T {
	var sum T
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
