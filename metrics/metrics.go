package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stacking"

// Metrics groups the collectors the services report to. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	recordsSubmitted    *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
	exportsGenerated    *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_submitted_total",
			Help:      "Timing records accepted, by event type.",
		}, []string{"event_type"}),
		aggregationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent loading data and ranking results.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		exportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_generated_total",
			Help:      "Result sheets rendered, by format.",
		}, []string{"format"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournament_status_transitions_total",
			Help:      "Tournament status changes, by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.recordsSubmitted, m.aggregationDuration, m.exportsGenerated, m.statusTransitions)
	return m
}

func (m *Metrics) RecordSubmitted(eventType string) {
	if m == nil {
		return
	}
	m.recordsSubmitted.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ObserveAggregation(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.aggregationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ExportGenerated(format string) {
	if m == nil {
		return
	}
	m.exportsGenerated.WithLabelValues(format).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
