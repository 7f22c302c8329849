package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRetrieval(20*time.Millisecond, 2, "hit")
	m.ObserveRetrieval(10*time.Millisecond, 0, "empty")
	m.StreamFinished(OutcomeTerminated)
	m.StreamFinished(OutcomeFailed)
	m.StreamFinished(OutcomeFailed)
	m.TokenEmitted()
	m.TokenEmitted()
	m.PersistenceFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.retrievalResults.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retrievalResults.WithLabelValues("empty")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.streamOutcomes.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.tokensEmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceFailures))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRetrieval(time.Second, 1, "hit")
		m.ObserveGeneration(time.Second)
		m.StreamFinished(OutcomeCancelled)
		m.TokenEmitted()
		m.PersistenceFailed()
	})
}
