package kdtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/constraints"
)

// redirectTracing sends tracer output to t for the duration of a test.
func redirectTracing(t *testing.T) {
	t.Helper()
	prev := gtrace.CoreTracer
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	t.Cleanup(func() {
		teardown()
		gtrace.CoreTracer = prev
	})
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
}

// randomPoints returns n points with coordinates uniform in [lo, hi).
// Data holds the point's index.
func randomPoints(rng *rand.Rand, n, dims int, lo, hi float64) []Point[float64] {
	points := make([]Point[float64], n)
	for i := range points {
		c := make([]float64, dims)
		for d := range c {
			c[d] = lo + (hi-lo)*rng.Float64()
		}
		points[i] = Point[float64]{Coords: c, Data: i}
	}
	return points
}

// gridPoints returns side^2 points on an integer grid, which produces many
// exact distance ties and coordinates equal to split values.
func gridPoints(side int) []Point[float64] {
	points := make([]Point[float64], 0, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			points = append(points, Point[float64]{Coords: []float64{float64(x), float64(y)}, Data: len(points)})
		}
	}
	return points
}

func pt(coords ...float64) Point[float64] {
	return Point[float64]{Coords: coords}
}

func buildTree(t *testing.T, dims int, points []Point[float64]) *Tree[float64] {
	t.Helper()
	cfg := DefaultConfig(dims)
	cfg.CheckInvariants = true
	tree, err := New[float64](cfg)
	require.NoError(t, err)
	require.NoError(t, tree.Build(points))
	return tree
}

// bruteForceDistances returns the squared distances from target to every
// point, ascending.
func bruteForceDistances(points []Point[float64], target Point[float64]) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = Dist2(target.Coords, p.Coords)
	}
	sort.Float64s(out)
	return out
}

// bruteForceWithin returns the Data tags of points strictly within radius.
func bruteForceWithin(points []Point[float64], target Point[float64], radius float64) map[any]bool {
	out := make(map[any]bool)
	for _, p := range points {
		if Dist2(target.Coords, p.Coords) < radius*radius {
			out[p.Data] = true
		}
	}
	return out
}

func sortedDistances[T constraints.Float](results []QueryResult[T]) []T {
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = r.Distance2
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// collectTags runs a radius query and returns the visited Data tags, failing
// on a duplicate visit or a visit outside the radius.
func collectTags(t *testing.T, tree *Tree[float64], target Point[float64], radius float64) map[any]bool {
	t.Helper()
	seen := make(map[any]bool)
	tree.RadiusQuery(target, radius, func(d2 float64, n *Node[float64]) {
		tag := n.Point().Data
		require.False(t, seen[tag], "point %v visited twice", tag)
		require.Less(t, d2, radius*radius)
		require.Equal(t, Dist2(target.Coords, n.Point().Coords), d2)
		seen[tag] = true
	})
	return seen
}
