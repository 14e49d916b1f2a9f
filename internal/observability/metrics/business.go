package metrics

import "time"

// RecordDiscovered records the candidates returned for a job.
func RecordDiscovered(job string, count int) {
	ModelsDiscoveredTotal.WithLabelValues(job).Add(float64(count))
}

// RecordInserted records the models stored by a job.
func RecordInserted(job string, count int) {
	ModelsInsertedTotal.WithLabelValues(job).Add(float64(count))
}

// RecordSkipped records one model that was not stored.
func RecordSkipped(reason string) {
	ModelsSkippedTotal.WithLabelValues(reason).Inc()
}

// UpdateModelsTotal sets the stored model count.
func UpdateModelsTotal(count int64) {
	ModelsTotal.Set(float64(count))
}

// RecordResearchDuration records the time spent enriching one model.
func RecordResearchDuration(duration time.Duration) {
	ResearchDuration.Observe(duration.Seconds())
}

// RecordProviderRequest records one external provider call.
//
// Example:
//
//	start := time.Now()
//	_, err := grok.Details(ctx, name, provider)
//	metrics.RecordProviderRequest("grok", "details", err == nil, time.Since(start))
func RecordProviderRequest(provider, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordFallback records that a stage moved past its primary provider.
func RecordFallback(stage, from string) {
	ProviderFallbacksTotal.WithLabelValues(stage, from).Inc()
}

// RecordDiscoveryFailure records a discovery pass that failed and was
// treated as empty.
func RecordDiscoveryFailure(job string) {
	DiscoveryFailuresTotal.WithLabelValues(job).Inc()
}

// RecordCacheOperation records a cache lookup or write.
// Result is one of hit, miss, error or ok.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
