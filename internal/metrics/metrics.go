// Package metrics defines the Prometheus collectors of the matcher and exposes
// a scrape handler. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	OracleCallsTotal    *prometheus.CounterVec
	OracleRetriesTotal  prometheus.Counter
	ScoreFallbacksTotal *prometheus.CounterVec
	MatchUpsertFailures prometheus.Counter
	MatchRunDuration    prometheus.Histogram
	MatchRunJobs        prometheus.Histogram
	CircuitBreakerState *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		OracleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oracle_calls_total",
				Help: "Scoring oracle calls by outcome (ok, transport, status, malformed_body, malformed_score, out_of_range, circuit_open).",
			},
			[]string{"outcome"},
		),
		OracleRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "oracle_retries_total",
				Help: "Scoring oracle calls repeated after a transient failure.",
			},
		),
		ScoreFallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "score_fallbacks_total",
				Help: "Pairs that received the fallback score, by reason (transient, malformed).",
			},
			[]string{"reason"},
		),
		MatchUpsertFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_upsert_failures_total",
				Help: "Match scores that could not be persisted.",
			},
		),
		MatchRunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_run_duration_seconds",
				Help:    "Wall time of one resume-against-catalog match run.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		MatchRunJobs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_run_jobs",
				Help:    "Number of jobs scored per match run.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OracleCallsTotal,
		m.OracleRetriesTotal,
		m.ScoreFallbacksTotal,
		m.MatchUpsertFailures,
		m.MatchRunDuration,
		m.MatchRunJobs,
		m.CircuitBreakerState,
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) OracleCall(outcome string) {
	if m == nil {
		return
	}
	m.OracleCallsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OracleRetry() {
	if m == nil {
		return
	}
	m.OracleRetriesTotal.Inc()
}

func (m *Metrics) ScoreFallback(reason string) {
	if m == nil {
		return
	}
	m.ScoreFallbacksTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) UpsertFailed() {
	if m == nil {
		return
	}
	m.MatchUpsertFailures.Inc()
}

func (m *Metrics) ObserveMatchRun(jobs int, d time.Duration) {
	if m == nil {
		return
	}
	m.MatchRunJobs.Observe(float64(jobs))
	m.MatchRunDuration.Observe(d.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
