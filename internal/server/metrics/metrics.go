// Package metrics holds the Prometheus instruments of the server.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Transport metrics
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec

	// Auth metrics
	LoginsTotal       *prometheus.CounterVec
	TokensIssuedTotal prometheus.Counter
	AuthFailuresTotal prometheus.Counter
	ConflictsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todokeeper_calls_total",
				Help: "Total number of handled calls",
			},
			[]string{"transport", "method", "code"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todokeeper_call_duration_seconds",
				Help:    "Call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport", "method"},
		),

		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todokeeper_logins_total",
				Help: "Total number of login attempts",
			},
			[]string{"outcome"},
		),
		TokensIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "todokeeper_tokens_issued_total",
				Help: "Total number of issued access tokens",
			},
		),
		AuthFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "todokeeper_auth_failures_total",
				Help: "Total number of rejected bearer tokens",
			},
		),
		ConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todokeeper_conflicts_total",
				Help: "Total number of uniqueness conflicts",
			},
			[]string{"field"},
		),
	}

	registry.MustRegister(
		m.CallsTotal,
		m.CallDuration,
		m.LoginsTotal,
		m.TokensIssuedTotal,
		m.AuthFailuresTotal,
		m.ConflictsTotal,
	)

	return m
}

// RegisterDB exports connection pool statistics of db.
func (m *Metrics) RegisterDB(db *sql.DB) {
	if m == nil {
		return
	}
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, "todokeeper"))
}

func (m *Metrics) ObserveCall(transport, method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(transport, method, code).Inc()
	m.CallDuration.WithLabelValues(transport, method).Observe(d.Seconds())
}

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.Inc()
}

func (m *Metrics) AuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Inc()
}

func (m *Metrics) Conflict(field string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(field).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
