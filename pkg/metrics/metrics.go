package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache reads by key class (listing|product) and outcome (hit|miss).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogd_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"key", "result"},
	)

	// CacheInvalidations counts cache key deletions triggered by catalog writes.
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogd_cache_invalidations_total",
			Help: "Total number of cache invalidations issued by the write path",
		},
		[]string{"operation"},
	)

	// CatalogOperations counts catalog service calls by operation and result (ok|not_found|error).
	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogd_catalog_operations_total",
			Help: "Total number of catalog service operations",
		},
		[]string{"operation", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogd_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
