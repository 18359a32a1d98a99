// Package metrics exposes Prometheus instrumentation for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the dashboard's collectors. A nil *Set is a no-op, so
// callers can run without metrics wired.
type Set struct {
	mutations    *prometheus.CounterVec
	entityCount  *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	insightRuns  prometheus.Counter
}

// New creates and registers the collector set.
func New(namespace string, reg prometheus.Registerer) *Set {
	s := &Set{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_mutations_total",
				Help:      "Total ledger mutations by entity and action",
			},
			[]string{"entity", "action"},
		),
		entityCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ledger_entities",
				Help:      "Current number of entities held by the ledger",
			},
			[]string{"entity"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by path and status code",
			},
			[]string{"path", "status"},
		),
		insightRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insight_analyses_total",
				Help:      "Number of insight analyzer runs",
			},
		),
	}
	reg.MustRegister(s.mutations, s.entityCount, s.httpRequests, s.insightRuns)
	return s
}

func (s *Set) RecordMutation(entity, action string) {
	if s == nil {
		return
	}
	s.mutations.WithLabelValues(entity, action).Inc()
}

func (s *Set) SetEntityCount(entity string, n int) {
	if s == nil {
		return
	}
	s.entityCount.WithLabelValues(entity).Set(float64(n))
}

func (s *Set) RecordRequest(path, status string) {
	if s == nil {
		return
	}
	s.httpRequests.WithLabelValues(path, status).Inc()
}

func (s *Set) RecordInsightRun() {
	if s == nil {
		return
	}
	s.insightRuns.Inc()
}
