// Package metrics содержит Prometheus-метрики сервера.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authkeeper"

// Исходы операций для AuthEvents.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics — набор метрик HTTP-слоя.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	// AuthEvents считает register/login/guard по исходу.
	AuthEvents *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics создаёт метрики и регистрирует их в reg.
// nil означает отдельный registry (удобно в тестах).
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication events by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.AuthEvents)
	return m
}

// Auth увеличивает счётчик события аутентификации. Безопасен для nil.
func (m *Metrics) Auth(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(operation, outcome).Inc()
}

// Handler отдаёт метрики в формате Prometheus exposition.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
