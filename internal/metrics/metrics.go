// Package metrics holds the Prometheus collectors shared by the service and
// HTTP layers. Collectors are registered on an injected registry so tests
// can use a fresh one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradejournal"

// Analysis kinds used as the "kind" label.
const (
	KindStatistics = "statistics"
	KindAdvanced   = "advanced"
)

type Metrics struct {
	registry *prometheus.Registry

	AnalyticsRequests *prometheus.CounterVec
	AnalyticsDuration *prometheus.HistogramVec
	SkippedRecords    prometheus.Counter
	AnalyticsFailures *prometheus.CounterVec

	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh registry with the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,
		AnalyticsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "requests_total",
			Help:      "Analytics computations by kind.",
		}, []string{"kind"}),
		AnalyticsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "duration_seconds",
			Help:      "Time spent fetching and analysing trades.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		SkippedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "skipped_records_total",
			Help:      "Trade records left out of analytics because they were malformed.",
		}),
		AnalyticsFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "failures_total",
			Help:      "Analytics computations that returned an error.",
		}, []string{"kind"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.AnalyticsRequests,
		m.AnalyticsDuration,
		m.SkippedRecords,
		m.AnalyticsFailures,
		m.HTTPRequestDuration,
	)
	return m
}

// ObserveAnalysis records one computation of the given kind.
func (m *Metrics) ObserveAnalysis(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.AnalyticsRequests.WithLabelValues(kind).Inc()
	m.AnalyticsDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		m.AnalyticsFailures.WithLabelValues(kind).Inc()
	}
}

// Skipped adds n malformed records.
func (m *Metrics) Skipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SkippedRecords.Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
