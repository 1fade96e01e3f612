// Package metrics collects in-process counters for API client activity.
// The CLI is a short-lived process, so nothing is exported over HTTP; the
// registry is gathered on demand and rendered by debug output.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// ClientMetrics holds Prometheus metrics for the API client.
type ClientMetrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts API requests by endpoint and HTTP status class.
	RequestsTotal *prometheus.CounterVec

	// RequestSeconds observes API request latency by endpoint.
	RequestSeconds *prometheus.HistogramVec

	// FallbacksTotal counts views that fell back to cached or fixture data.
	FallbacksTotal *prometheus.CounterVec

	// PollsSkippedTotal counts poll ticks skipped because a fetch was in flight.
	PollsSkippedTotal prometheus.Counter
}

// NewClientMetrics creates a metric set on a private registry.
func NewClientMetrics() *ClientMetrics {
	reg := prometheus.NewRegistry()

	m := &ClientMetrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_client_requests_total",
				Help: "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantum_client_request_seconds",
				Help:    "API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		FallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantum_view_fallbacks_total",
				Help: "Views served from cache or fixtures after a request failure",
			},
			[]string{"view", "source"},
		),
		PollsSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quantum_polls_skipped_total",
				Help: "Poll ticks skipped while a previous fetch was still in flight",
			},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestSeconds, m.FallbacksTotal, m.PollsSkippedTotal)
	return m
}

// ObserveRequest records one completed API request.
func (m *ClientMetrics) ObserveRequest(endpoint, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestSeconds.WithLabelValues(endpoint).Observe(seconds)
}

// RecordFallback records a view falling back to cache or fixture data.
func (m *ClientMetrics) RecordFallback(view, source string) {
	m.FallbacksTotal.WithLabelValues(view, source).Inc()
}

// Render gathers the registry and returns counter values as sorted
// human-readable lines, for --debug output at the end of a command.
func (m *ClientMetrics) Render() (string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gathering metrics: %w", err)
	}

	var lines []string
	for _, fam := range families {
		if fam.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range fam.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			name := fam.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %.0f", name, metric.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}
