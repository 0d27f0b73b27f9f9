package kdtree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query kinds used as the "kind" label of the query counter.
const (
	queryNearest = "nearest"
	queryKNN     = "knn"
	queryRadius  = "radius"
)

// Metrics holds the Prometheus collectors updated by an Index.
// A nil *Metrics records nothing.
type Metrics struct {
	builds        prometheus.Counter
	buildDuration prometheus.Histogram
	points        prometheus.Gauge
	queries       *prometheus.CounterVec
}

// NewMetrics creates the index collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kdtree_builds_total",
			Help: "Total number of completed tree builds",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kdtree_build_duration_seconds",
			Help:    "Tree build latency",
			Buckets: prometheus.DefBuckets,
		}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kdtree_points",
			Help: "Number of points in the current tree",
		}),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdtree_queries_total",
				Help: "Total number of queries by kind",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.builds, m.buildDuration, m.points, m.queries)
	return m
}

func (m *Metrics) observeBuild(elapsed time.Duration, n int) {
	if m == nil {
		return
	}
	m.builds.Inc()
	m.buildDuration.Observe(elapsed.Seconds())
	m.points.Set(float64(n))
}

func (m *Metrics) observeQuery(kind string, count int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind).Add(float64(count))
}
