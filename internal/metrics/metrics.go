// Package metrics exposes the Prometheus instruments of the answer pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lexbot"

// Stream outcomes.
const (
	OutcomeTerminated = "terminated"
	OutcomeFailed     = "failed"
	OutcomeCancelled  = "cancelled"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	retrievalLatency    prometheus.Histogram
	retrievalCandidates prometheus.Histogram
	retrievalResults    *prometheus.CounterVec
	generationLatency   prometheus.Histogram
	streamOutcomes      *prometheus.CounterVec
	tokensEmitted       prometheus.Counter
	persistenceFailures prometheus.Counter
}

// New registers the instruments on reg. Pass prometheus.NewRegistry() in
// tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		retrievalLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "Time spent ranking the knowledge base for one query.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		retrievalCandidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "admitted_candidates",
			Help:      "Candidates passing both the score and the lexical gate, before top-K.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25},
		}),
		retrievalResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retrieval",
			Name:      "queries_total",
			Help:      "Retrieval calls by result.",
		}, []string{"result"}),
		generationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Latency of a single generation call.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		streamOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "outcomes_total",
			Help:      "Answer streams by final state.",
		}, []string{"outcome"}),
		tokensEmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "tokens_total",
			Help:      "Answer words delivered to clients.",
		}),
		persistenceFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "persistence_failures_total",
			Help:      "Transcripts that could not be recorded.",
		}),
	}
}

func (m *Metrics) ObserveRetrieval(d time.Duration, admitted int, result string) {
	if m == nil {
		return
	}
	m.retrievalLatency.Observe(d.Seconds())
	m.retrievalCandidates.Observe(float64(admitted))
	m.retrievalResults.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveGeneration(d time.Duration) {
	if m == nil {
		return
	}
	m.generationLatency.Observe(d.Seconds())
}

func (m *Metrics) StreamFinished(outcome string) {
	if m == nil {
		return
	}
	m.streamOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenEmitted() {
	if m == nil {
		return
	}
	m.tokensEmitted.Inc()
}

func (m *Metrics) PersistenceFailed() {
	if m == nil {
		return
	}
	m.persistenceFailures.Inc()
}
