// Package metrics defines the Prometheus collectors for the API and exposes
// an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each instance registers against
// its own registry so tests can build independent apps.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DocumentsIngestedTotal prometheus.Counter
	DocumentsDeletedTotal  prometheus.Counter
	DispatchesTotal        *prometheus.CounterVec
	DispatchDuration       prometheus.Histogram
	StaleDispatchTotal     prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
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
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		DocumentsIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "documents_ingested_total",
				Help: "Total documents accepted for processing.",
			},
		),
		DocumentsDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "documents_deleted_total",
				Help: "Total documents reclaimed (record and file removed).",
			},
		),
		DispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "processing_dispatches_total",
				Help: "Total processing dispatches by outcome (processed, error).",
			},
			[]string{"outcome"},
		),
		DispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "processing_dispatch_duration_seconds",
				Help:    "Time from dispatch start to terminal status write.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		StaleDispatchTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "processing_stale_dispatch_writes_total",
				Help: "Dispatch outcomes dropped because the document was deleted or already terminal.",
			},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DocumentsIngestedTotal,
		m.DocumentsDeletedTotal,
		m.DispatchesTotal,
		m.DispatchDuration,
		m.StaleDispatchTotal,
	)

	return m
}

// Handler returns the Prometheus scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
