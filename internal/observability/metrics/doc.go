// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (discovered, inserted and skipped models)
//   - External provider and cache metrics
//
// All metrics are registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "model-tracker/internal/observability/metrics"
//
//	func persist(models []*entity.Model) {
//	    // ... insert models ...
//	    metrics.RecordInserted("fetch_models", inserted)
//	}
package metrics
