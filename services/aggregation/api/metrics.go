package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flowmon"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// serverMetrics holds the service's own counters, registered on a dedicated registry
type serverMetrics struct {
	registry       *prometheus.Registry
	reportsTotal   *prometheus.CounterVec
	scopesRejected prometheus.Counter
	rowsProjected  prometheus.Counter
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Total number of agent reports received",
			},
			[]string{"status"}, // status: success, error
		),
		scopesRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scopes_rejected_total",
				Help:      "Total number of reported scopes dropped because of an invalid kind or a malformed record",
			},
		),
		rowsProjected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_projected_total",
				Help:      "Total number of flow table rows served",
			},
		),
	}

	m.registry.MustRegister(m.reportsTotal, m.scopesRejected, m.rowsProjected)

	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
