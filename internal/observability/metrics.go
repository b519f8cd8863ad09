// Package observability holds the domain metric collectors shared by the
// pipeline, the cache and the upstream client. Collectors are created once
// and registered into the service's private registry at startup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pointsBinnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_binned_total",
			Help: "LiDAR points binned into grid cells, by classification.",
		},
		[]string{"class"},
	)

	gridCells = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grid_cells",
			Help: "Cell counts of the most recent raster product.",
		},
		[]string{"band", "state"},
	)

	heightsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "building_heights_resolved_total",
			Help: "Building heights by the rule that produced them.",
		},
		[]string{"source"},
	)

	upstreamLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of geodata API calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"layer", "status"},
	)

	cacheResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tile_cache_results_total",
			Help: "Tile cache lookups by tier and outcome.",
		},
		[]string{"tier", "outcome"},
	)
)

// Collectors returns every domain collector for registration at startup.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		pointsBinnedTotal,
		gridCells,
		heightsResolvedTotal,
		upstreamLatencySeconds,
		cacheResultsTotal,
	}
}

func AddPointsBinned(class string, n int) {
	pointsBinnedTotal.WithLabelValues(class).Add(float64(n))
}

func SetGridCells(band string, populated, noData int) {
	gridCells.WithLabelValues(band, "populated").Set(float64(populated))
	gridCells.WithLabelValues(band, "no_data").Set(float64(noData))
}

func IncHeightResolved(source string) {
	heightsResolvedTotal.WithLabelValues(source).Inc()
}

func IncHeightResolvedN(source string, n int) {
	heightsResolvedTotal.WithLabelValues(source).Add(float64(n))
}

func ObserveUpstream(layer, status string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(layer, status).Observe(durationSeconds)
}

func IncCacheHit(tier string)  { cacheResultsTotal.WithLabelValues(tier, "hit").Inc() }
func IncCacheMiss(tier string) { cacheResultsTotal.WithLabelValues(tier, "miss").Inc() }
