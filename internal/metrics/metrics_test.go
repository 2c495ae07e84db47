package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ChecklistGenerated("llp", "technology")
		m.StatusChanged("completed")
		m.ChecklistCompleted()
		m.ECardIssued("verified")
		m.ChatAnswered("llm")
		m.ObserveHTTP("GET", "/health", "200", 0.01)
	})
}

func TestCountersIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.StatusChanged("completed")
	m.StatusChanged("completed")
	m.ECardIssued("unverified")
	m.ChecklistCompleted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ECardsIssued.WithLabelValues("unverified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecklistsCompleted))
}
