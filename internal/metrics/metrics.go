// Package metrics exports archive query latency, error and status series
// for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	searchModes   *prometheus.CounterVec
	state         *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slackvault",
			Name:      "query_duration_seconds",
			Help:      "Archive query latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"op"}),
		queryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slackvault",
			Name:      "query_errors_total",
			Help:      "Failed archive queries by operation and error kind.",
		}, []string{"op", "kind"}),
		searchModes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slackvault",
			Name:      "search_requests_total",
			Help:      "Search requests by filter mode.",
		}, []string{"mode"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "slackvault",
			Name:      "daemon_state",
			Help:      "1 for the daemon's current state, 0 otherwise.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(
		m.queryDuration,
		m.queryErrors,
		m.searchModes,
		m.state,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuery records one query. kind is "ok" for success.
func (m *Metrics) ObserveQuery(op, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(op).Observe(d.Seconds())
	if kind != "ok" {
		m.queryErrors.WithLabelValues(op, kind).Inc()
	}
}

// ObserveSearchMode counts a search by filter mode.
func (m *Metrics) ObserveSearchMode(mode string) {
	if m == nil {
		return
	}
	m.searchModes.WithLabelValues(mode).Inc()
}

// SetState marks state as current and clears the previous one.
func (m *Metrics) SetState(prev, state string) {
	if m == nil {
		return
	}
	if prev != "" {
		m.state.WithLabelValues(prev).Set(0)
	}
	m.state.WithLabelValues(state).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
