// Package metrics holds the Prometheus collectors of the gotaylor MCP server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered for one server.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	order        prometheus.Histogram
}

// New registers the collectors on a fresh registry, so several servers (and
// tests) never collide on the global one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotaylor_tool_calls_total",
			Help: "Tool calls by tool and result code",
		}, []string{"tool", "code"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gotaylor_tool_duration_seconds",
			Help:    "Tool call duration",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"tool"}),
		order: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gotaylor_requested_order",
			Help:    "Taylor order requested per tool call",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
}

// ObserveCall records one finished tool call. An empty code means success.
func (m *Metrics) ObserveCall(tool, code string, elapsed time.Duration) {
	if code == "" {
		code = "OK"
	}
	m.toolCalls.WithLabelValues(tool, code).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveOrder records the order a call asked for.
func (m *Metrics) ObserveOrder(order int) {
	m.order.Observe(float64(order))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
