// Package metrics exposes Prometheus collectors for checklist and e-card
// activity. All methods are safe on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecklistsGenerated *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	ChecklistsCompleted prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	ECardsIssued        *prometheus.CounterVec
	ChatRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New registers the collectors with reg. Passing nil uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ChecklistsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizease_checklists_generated_total",
			Help: "Checklists derived from a submitted profile",
		}, []string{"structure", "industry"}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizease_checklist_status_transitions_total",
			Help: "Checklist item status changes by target status",
		}, []string{"status"}),
		ChecklistsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "bizease_checklists_completed_total",
			Help: "Checklists that reached 100% completion",
		}),
		PersistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizease_persistence_failures_total",
			Help: "Recovered storage failures by operation",
		}, []string{"operation"}),
		ECardsIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizease_ecards_issued_total",
			Help: "E-cards issued by provenance",
		}, []string{"provenance"}),
		ChatRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bizease_chat_requests_total",
			Help: "Chat requests by answer source",
		}, []string{"source"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizease_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ChecklistGenerated(structure, industry string) {
	if m != nil {
		m.ChecklistsGenerated.WithLabelValues(structure, industry).Inc()
	}
}

func (m *Metrics) StatusChanged(status string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) ChecklistCompleted() {
	if m != nil {
		m.ChecklistsCompleted.Inc()
	}
}

func (m *Metrics) PersistenceFailed(operation string) {
	if m != nil {
		m.PersistenceFailures.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) ECardIssued(provenance string) {
	if m != nil {
		m.ECardsIssued.WithLabelValues(provenance).Inc()
	}
}

func (m *Metrics) ChatAnswered(source string) {
	if m != nil {
		m.ChatRequests.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m != nil {
		m.HTTPDuration.WithLabelValues(method, route, status).Observe(seconds)
	}
}
