package upgma

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors updated by tree constructions. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Constructions       *prometheus.CounterVec
	ConstructionSeconds *prometheus.HistogramVec
	Joins               prometheus.Counter
	DuplicatesCoalesced prometheus.Counter
	Taxa                prometheus.Histogram
}

// DefaultConstructionBuckets spans sub-millisecond toy inputs to
// multi-minute constructions on tens of thousands of taxa.
var DefaultConstructionBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 300}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upgma",
			Name:      "constructions_total",
			Help:      "Tree constructions by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		ConstructionSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "upgma",
			Name:      "construction_duration_seconds",
			Help:      "Wall time of successful tree constructions.",
			Buckets:   DefaultConstructionBuckets,
		}, []string{"algorithm"}),
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upgma",
			Name:      "joins_total",
			Help:      "Pairwise joins performed, duplicate coalescing included.",
		}),
		DuplicatesCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upgma",
			Name:      "duplicates_coalesced_total",
			Help:      "Taxa removed by the identical-row pre-pass.",
		}),
		Taxa: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upgma",
			Name:      "taxa",
			Help:      "Number of taxa per construction.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Constructions, m.ConstructionSeconds, m.Joins, m.DuplicatesCoalesced, m.Taxa)
	}
	return m
}

func (m *Metrics) observeJoin() {
	if m == nil {
		return
	}
	m.Joins.Inc()
}

func (m *Metrics) observeDuplicates(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DuplicatesCoalesced.Add(float64(n))
}

func (m *Metrics) observeConstruction(algorithm string, taxa int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Constructions.WithLabelValues(algorithm, outcome).Inc()
	if err == nil {
		m.ConstructionSeconds.WithLabelValues(algorithm).Observe(elapsed.Seconds())
		m.Taxa.Observe(float64(taxa))
	}
}
