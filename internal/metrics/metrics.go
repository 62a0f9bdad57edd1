// Package metrics holds the Prometheus collectors for the aggregation
// pipeline. Initialize must be called once before any Record helper.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles every venuecost collector.
type Registry struct {
	FetchDuration    *prometheus.HistogramVec
	FetchOutcomes    *prometheus.CounterVec
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	DiscoveredVenues prometheus.Gauge
	ComparisonRuns   prometheus.Counter
	SimulationRuns   prometheus.Counter
}

var (
	registry *Registry
	initOnce sync.Once
)

// Initialize registers all collectors on the default Prometheus registerer.
// Safe to call more than once.
func Initialize() *Registry {
	initOnce.Do(func() {
		registry = &Registry{
			FetchDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "venuecost_fetch_duration_seconds",
					Help:    "Duration of one venue fetch attempt",
					Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
				},
				[]string{"venue", "result"},
			),
			FetchOutcomes: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "venuecost_fetch_outcomes_total",
					Help: "Venue fetch outcomes by venue and outcome",
				},
				[]string{"venue", "outcome"},
			),
			CacheHits: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "venuecost_cache_hits_total",
					Help: "Cache hits by key kind",
				},
				[]string{"kind"},
			),
			CacheMisses: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "venuecost_cache_misses_total",
					Help: "Cache misses by key kind",
				},
				[]string{"kind"},
			),
			DiscoveredVenues: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "venuecost_discovered_venues",
					Help: "Usable venues found by the last discovery cycle",
				},
			),
			ComparisonRuns: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "venuecost_comparison_runs_total",
					Help: "Cost comparisons computed",
				},
			),
			SimulationRuns: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "venuecost_simulation_runs_total",
					Help: "Market-order simulations computed",
				},
			),
		}

		prometheus.MustRegister(
			registry.FetchDuration,
			registry.FetchOutcomes,
			registry.CacheHits,
			registry.CacheMisses,
			registry.DiscoveredVenues,
			registry.ComparisonRuns,
			registry.SimulationRuns,
		)
	})
	return registry
}

// RecordFetch observes one venue fetch attempt.
func RecordFetch(venue, result string, elapsed time.Duration) {
	if registry == nil {
		return
	}
	registry.FetchDuration.WithLabelValues(venue, result).Observe(elapsed.Seconds())
	registry.FetchOutcomes.WithLabelValues(venue, result).Inc()
}

// RecordCache observes a cache lookup for a key kind.
func RecordCache(kind string, hit bool) {
	if registry == nil {
		return
	}
	if hit {
		registry.CacheHits.WithLabelValues(kind).Inc()
	} else {
		registry.CacheMisses.WithLabelValues(kind).Inc()
	}
}

// RecordDiscovery sets the discovered-venue gauge.
func RecordDiscovery(usable int) {
	if registry == nil {
		return
	}
	registry.DiscoveredVenues.Set(float64(usable))
}

// RecordComparison counts one comparison computation.
func RecordComparison() {
	if registry != nil {
		registry.ComparisonRuns.Inc()
	}
}

// RecordSimulation counts one simulation computation.
func RecordSimulation() {
	if registry != nil {
		registry.SimulationRuns.Inc()
	}
}
