package kdtree

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_EmptyReturnsErrors(t *testing.T) {
	x, err := NewIndex[float64](DefaultConfig(2), nil)
	require.NoError(t, err)
	target := pt(0, 0)

	_, err = x.NearestNeighbor(target)
	assert.ErrorIs(t, err, ErrEmptyTree)
	_, err = x.KNearestNeighbors(target, 3)
	assert.ErrorIs(t, err, ErrEmptyTree)
	assert.ErrorIs(t, x.RadiusQuery(target, 1, func(float64, *Node[float64]) {}), ErrEmptyTree)
	_, err = x.Within(target, 1)
	assert.ErrorIs(t, err, ErrEmptyTree)
	assert.Equal(t, 0, x.Len())
}

func TestIndex_InvalidConfig(t *testing.T) {
	_, err := NewIndex[float64](Config{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIndex_QueriesAfterRebuild(t *testing.T) {
	redirectTracing(t)

	x, err := NewIndex[float64](DefaultConfig(2), nil)
	require.NoError(t, err)
	require.NoError(t, x.Rebuild(squareCorners()))
	assert.Equal(t, 4, x.Len())

	target := pt(1, 1)
	nn, err := x.NearestNeighbor(target)
	require.NoError(t, err)
	assert.Equal(t, 2.0, nn.Distance2)

	knn, err := x.KNearestNeighbors(target, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, sortedDistances(knn))

	_, err = x.KNearestNeighbors(target, 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	count := 0
	require.NoError(t, x.RadiusQuery(target, 1.5, func(float64, *Node[float64]) { count++ }))
	assert.Equal(t, 4, count)

	within, err := x.Within(target, 1)
	require.NoError(t, err)
	assert.Empty(t, within)

	_, err = x.NearestNeighbor(pt(1, 1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestIndex_FailedRebuildKeepsTree(t *testing.T) {
	x, err := NewIndex[float64](DefaultConfig(2), nil)
	require.NoError(t, err)
	require.NoError(t, x.Rebuild(gridPoints(3)))

	err = x.Rebuild([]Point[float64]{pt(1)})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 9, x.Len())
}

func TestIndex_Batch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	points := randomPoints(rng, 200, 2, 0, 10)
	targets := randomPoints(rng, 20, 2, 0, 10)

	x, err := NewIndex[float64](Config{Dims: 2, Workers: 3}, nil)
	require.NoError(t, err)
	require.NoError(t, x.Rebuild(points))

	nn, err := x.NearestNeighborBatch(context.Background(), targets)
	require.NoError(t, err)
	knn, err := x.KNearestNeighborsBatch(context.Background(), targets, 3)
	require.NoError(t, err)
	for i, target := range targets {
		want := bruteForceDistances(points, target)
		assert.Equal(t, want[0], nn[i].Distance2)
		assert.Equal(t, want[:3], sortedDistances(knn[i]))
	}
}

// Rebuilds race against readers; every query must see a complete tree.
func TestIndex_ConcurrentRebuildAndQuery(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	sets := [][]Point[float64]{
		randomPoints(rng, 300, 2, 0, 1),
		randomPoints(rng, 500, 2, 0, 1),
		gridPoints(12),
	}

	x, err := NewIndex[float64](DefaultConfig(2), nil)
	require.NoError(t, err)
	require.NoError(t, x.Rebuild(sets[0]))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 30; i++ {
			assert.NoError(t, x.Rebuild(sets[i%len(sets)]))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			qrng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				target := pt(qrng.Float64(), qrng.Float64())
				knn, err := x.KNearestNeighbors(target, 5)
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, knn, 5)
			}
		}(int64(r))
	}
	wg.Wait()
}

func TestIndex_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	x, err := NewIndex[float64](DefaultConfig(2), m)
	require.NoError(t, err)
	require.NoError(t, x.Rebuild(gridPoints(4)))
	require.NoError(t, x.Rebuild(gridPoints(3)))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.builds))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.points))

	_, err = x.NearestNeighbor(pt(0, 0))
	require.NoError(t, err)
	_, err = x.KNearestNeighbors(pt(0, 0), 2)
	require.NoError(t, err)
	_, err = x.Within(pt(0, 0), 1)
	require.NoError(t, err)
	_, err = x.NearestNeighborBatch(context.Background(), []Point[float64]{pt(1, 1), pt(2, 2)})
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.queries.WithLabelValues(queryNearest)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues(queryKNN)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues(queryRadius)))

	count, err := testutil.GatherAndCount(reg, "kdtree_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
