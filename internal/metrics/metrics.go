// Package metrics exposes Prometheus instrumentation for the writer backend.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeUpstream = "upstream_error"
	OutcomeInvalid  = "invalid"
)

type Metrics struct {
	edits       prometheus.Counter
	deletions   prometheus.Counter
	storage     *prometheus.CounterVec
	generations *prometheus.CounterVec
	genDuration prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		edits: f.NewCounter(prometheus.CounterOpts{
			Name: "vibe_edits_recorded_total",
			Help: "Edits appended to a project history.",
		}),
		deletions: f.NewCounter(prometheus.CounterOpts{
			Name: "vibe_deletions_recorded_total",
			Help: "Deletions appended to a project history.",
		}),
		storage: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibe_storage_failures_total",
			Help: "Failed persistence operations by operation.",
		}, []string{"op"}),
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibe_generation_requests_total",
			Help: "Text generation requests by outcome.",
		}, []string{"outcome"}),
		genDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vibe_generation_duration_seconds",
			Help:    "Latency of text generation calls.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
	}
}

func (m *Metrics) EditRecorded() {
	if m != nil {
		m.edits.Inc()
	}
}

func (m *Metrics) DeletionRecorded() {
	if m != nil {
		m.deletions.Inc()
	}
}

// StorageFailed counts a failed load or save.
func (m *Metrics) StorageFailed(op string) {
	if m != nil {
		m.storage.WithLabelValues(op).Inc()
	}
}

// Generation records one generator call that started at start.
func (m *Metrics) Generation(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.genDuration.Observe(time.Since(start).Seconds())
}
