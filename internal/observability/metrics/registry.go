// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Business metrics track model discovery and persistence
var (
	// ModelsTotal tracks the number of stored models
	ModelsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "models_total",
			Help: "Total number of models in the database",
		},
	)

	// ModelsDiscoveredTotal counts candidates returned by discovery passes
	ModelsDiscoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "models_discovered_total",
			Help: "Total number of model releases returned by discovery passes",
		},
		[]string{"job"}, // job: fetch_models, backfill
	)

	// ModelsInsertedTotal counts newly stored models
	ModelsInsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "models_inserted_total",
			Help: "Total number of models inserted",
		},
		[]string{"job"},
	)

	// ModelsSkippedTotal counts models not stored, by reason
	ModelsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "models_skipped_total",
			Help: "Total number of models skipped during persistence",
		},
		[]string{"reason"}, // reason: invalid, exists, error
	)

	// ResearchDuration measures the enrichment time of one model
	ResearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_research_duration_seconds",
			Help:    "Time taken to research a single model",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// ProviderRequestsTotal counts LLM and search provider calls
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of external provider requests",
		},
		[]string{"provider", "operation", "status"},
	)

	// ProviderRequestDuration measures provider call latency
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "External provider request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"provider", "operation"},
	)

	// ProviderFallbacksTotal counts switches to a fallback provider
	ProviderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fallbacks_total",
			Help: "Total number of fallbacks from a primary provider",
		},
		[]string{"stage", "from"},
	)

	// DiscoveryFailuresTotal counts discovery passes that returned nothing usable
	DiscoveryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_failures_total",
			Help: "Total number of failed discovery passes",
		},
		[]string{"job"},
	)

	// CacheOperationsTotal counts cache lookups and writes by result
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // result: hit, miss, error, ok
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
