// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog load results.
const (
	ResultSuccess  = "success"
	ResultEmpty    = "empty"
	ResultFailure  = "failure"
	ResultCacheHit = "cache"
)

// Registry holds all collectors on a private prometheus registry, so several
// instances can coexist in one process.
type Registry struct {
	registry *prometheus.Registry

	CatalogLoads         *prometheus.CounterVec
	CatalogLoadDuration  prometheus.Histogram
	DatasetFetchFailures prometheus.Counter
	CatalogDays          prometheus.Gauge
	ActiveSessions       prometheus.Gauge
}

// NewRegistry creates a registry with every paper-trading collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		CatalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paper_trading_catalog_loads_total",
				Help: "Catalog load attempts by result",
			},
			[]string{"result"},
		),

		CatalogLoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "paper_trading_catalog_load_duration_seconds",
				Help:    "Duration of a full catalog load in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		DatasetFetchFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "paper_trading_dataset_fetch_failures_total",
				Help: "Day datasets that could not be fetched or decoded",
			},
		),

		CatalogDays: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "paper_trading_catalog_days",
				Help: "Datasets in the catalog generation currently served",
			},
		),

		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "paper_trading_active_sessions",
				Help: "Selection sessions on the current catalog generation",
			},
		),
	}

	r.registry.MustRegister(
		r.CatalogLoads,
		r.CatalogLoadDuration,
		r.DatasetFetchFailures,
		r.CatalogDays,
		r.ActiveSessions,
	)

	return r
}

// RecordCatalogLoad counts a load attempt and observes its duration.
func (r *Registry) RecordCatalogLoad(result string, started time.Time) {
	r.CatalogLoads.WithLabelValues(result).Inc()
	r.CatalogLoadDuration.Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
