package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for search and selection activity.
// Each instance owns its registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	SearchDuration prometheus.Histogram
	SearchResults  prometheus.Histogram

	Actions       *prometheus.CounterVec
	FlushFailures prometheus.Counter
	LoadFailures  prometheus.Counter

	CatalogEntries prometheus.Gauge
	CatalogSkipped prometheus.Gauge
	CatalogReloads *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent ranking a query against the catalog",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		}),

		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Selection actions applied, by kind",
		}, []string{"action"}),
		FlushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_failures_total",
			Help:      "Failed writes of selection state to storage",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Failed reads or migrations of persisted selection state",
		}),

		CatalogEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Searchable entries in the loaded catalog",
		}),
		CatalogSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_skipped_entries",
			Help:      "Malformed or duplicate entries dropped from the loaded catalog",
		}),
		CatalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog reload attempts, by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.SearchDuration,
		m.SearchResults,
		m.Actions,
		m.FlushFailures,
		m.LoadFailures,
		m.CatalogEntries,
		m.CatalogSkipped,
		m.CatalogReloads,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
