// Package observability exposes process metrics for scraping.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statement_dashboard"

// Metrics holds the counters recorded by the dashboard service.
type Metrics struct {
	registry *prometheus.Registry

	StatementsParsed *prometheus.CounterVec
	ParseFailures    *prometheus.CounterVec
	RowsSkipped      *prometheus.CounterVec
	RowsParsed       *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	BuildDuration    *prometheus.HistogramVec
}

// NewMetrics registers every collector on a fresh registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		StatementsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_parsed_total",
			Help:      "Statements parsed successfully, by vendor.",
		}, []string{"vendor"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_parse_failures_total",
			Help:      "Statements rejected as unreadable, by vendor.",
		}, []string{"vendor"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_rows_skipped_total",
			Help:      "Rows dropped because a field could not be coerced, by vendor.",
		}, []string{"vendor"}),
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_rows_parsed_total",
			Help:      "Canonical rows produced, by vendor.",
		}, []string{"vendor"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_cache_lookups_total",
			Help:      "Parsed statement cache lookups, by result (hit or miss).",
		}, []string{"result"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_build_seconds",
			Help:      "Time spent filtering and aggregating a dashboard.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"granularity"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.StatementsParsed,
		m.ParseFailures,
		m.RowsSkipped,
		m.RowsParsed,
		m.CacheLookups,
		m.BuildDuration,
	)
	return m
}

// ObserveParse records the outcome of one statement parse.
func (m *Metrics) ObserveParse(vendor string, rows, skipped int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ParseFailures.WithLabelValues(vendor).Inc()
		return
	}
	m.StatementsParsed.WithLabelValues(vendor).Inc()
	m.RowsParsed.WithLabelValues(vendor).Add(float64(rows))
	m.RowsSkipped.WithLabelValues(vendor).Add(float64(skipped))
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBuild(granularity string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BuildDuration.WithLabelValues(granularity).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
