package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Open-Meteo API call rate by endpoint. Watch for: error vs success ratio.
	APICalls *prometheus.CounterVec

	// Upstream latency per request. Watch for: p95 > 2s (upstream degradation).
	APIDuration *prometheus.HistogramVec

	// Cache hits by cache type ("forecast", "historical").
	CacheHits *prometheus.CounterVec

	// Cache misses by cache type. Historical misses count months fetched,
	// not requests.
	CacheMisses *prometheus.CounterVec

	// Months fetched from the archive endpoint. Rate should fall toward zero
	// for a stable set of locations as the file cache fills.
	HistoricalMonthsFetched prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	APICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmeteoApiCallsTotal",
			Help: "Total number of Open-Meteo API calls",
		},
		[]string{"endpoint", "status"},
	)
	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openmeteoApiDurationSeconds",
			Help:    "Open-Meteo API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmeteoCacheHitsTotal",
			Help: "Total number of cache hits by cache type",
		},
		[]string{"cacheType"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmeteoCacheMissesTotal",
			Help: "Total number of cache misses by cache type",
		},
		[]string{"cacheType"},
	)
	HistoricalMonthsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "openmeteoHistoricalMonthsFetchedTotal",
			Help: "Total number of historical months fetched from the archive endpoint",
		},
	)

	registry.MustRegister(
		APICalls,
		APIDuration,
		CacheHits,
		CacheMisses,
		HistoricalMonthsFetched,
	)
}

// Handler serves the library's metrics. The registry is private so embedding
// applications can mount it wherever they like without collisions.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
