package octree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	correctionLabel = "path"

	correctionNeighbors = "neighbors"
	correctionAncestor  = "ancestor"
	correctionRoot      = "root"
)

// Metrics counts the work done by indexes. A nil *Metrics records nothing.
type Metrics struct {
	buildSeconds    prometheus.Histogram
	incompleteFaces prometheus.Counter
	corrections     *prometheus.CounterVec
	insertions      prometheus.Counter
	leavesTested    prometheus.Counter
	intersections   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		buildSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "meshoctree_build_seconds",
			Help:    "Time taken to build both trees of an index, correction included.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		incompleteFaces: factory.NewCounter(prometheus.CounterOpts{
			Name: "meshoctree_incomplete_faces",
			Help: "The number of faces registered in a leaf that does not contain them.",
		}),
		corrections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meshoctree_corrections",
			Help: "The number of incomplete faces corrected, by resolution path.",
		}, []string{correctionLabel}),
		insertions: factory.NewCounter(prometheus.CounterOpts{
			Name: "meshoctree_correction_insertions",
			Help: "The number of faces added to leaves during correction.",
		}),
		leavesTested: factory.NewCounter(prometheus.CounterOpts{
			Name: "meshoctree_leaves_tested",
			Help: "The number of face tree leaves tested for self intersections.",
		}),
		intersections: factory.NewCounter(prometheus.CounterOpts{
			Name: "meshoctree_intersecting_pairs",
			Help: "The number of intersecting face pairs found, repeats included.",
		}),
	}
}

func (m *Metrics) recordBuild(took time.Duration, incomplete int) {
	if m == nil {
		return
	}
	m.buildSeconds.Observe(took.Seconds())
	m.incompleteFaces.Add(float64(incomplete))
}

func (m *Metrics) recordCorrection(path string) {
	if m == nil {
		return
	}
	m.corrections.WithLabelValues(path).Inc()
}

func (m *Metrics) recordInsertions(n int) {
	if m == nil {
		return
	}
	m.insertions.Add(float64(n))
}

func (m *Metrics) recordLeaf() {
	if m == nil {
		return
	}
	m.leavesTested.Inc()
}

func (m *Metrics) recordIntersections(n int) {
	if m == nil {
		return
	}
	m.intersections.Add(float64(n))
}
