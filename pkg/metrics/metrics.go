package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IDsIssued counts request IDs handed out, by width and mode
	// ("plain" or "mixed").
	IDsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiters_request_ids_issued_total",
			Help: "Total number of request IDs issued",
		},
		[]string{"width", "mode"},
	)

	ExternalIDsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiters_external_ids_created_total",
			Help: "Total number of external IDs created",
		},
		[]string{"persisted"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiters_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"}, // "l1" or "l2"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiters_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kiters_cache_size",
			Help: "Current number of items in cache",
		},
		[]string{"layer"},
	)

	// Request metrics
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiters_http_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiters_http_requests_total",
			Help: "Total number of requests",
		},
		[]string{"method", "route", "status"},
	)

	// Database metrics
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiters_database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Mode returns the IDsIssued mode label.
func Mode(mixed bool) string {
	if mixed {
		return "mixed"
	}
	return "plain"
}
