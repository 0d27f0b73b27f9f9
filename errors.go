package kdtree

import "errors"

var (
	// ErrEmptyTree is the panic value of a query against a tree with no
	// nodes. Index and the batch helpers return it as an error instead.
	ErrEmptyTree = errors.New("kdtree: query on empty tree")

	// ErrInvalidK is returned when a k-nearest-neighbors query asks for k <= 0.
	ErrInvalidK = errors.New("kdtree: k must be positive")

	// ErrDimensionMismatch is returned (or panicked with, for query targets)
	// when a point's coordinate count differs from the tree's K.
	ErrDimensionMismatch = errors.New("kdtree: dimension mismatch")

	// ErrInvalidPoint is returned by Build for a point with a NaN coordinate.
	ErrInvalidPoint = errors.New("kdtree: invalid point")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("kdtree: invalid config")
)
