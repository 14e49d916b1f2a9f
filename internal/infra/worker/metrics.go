package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"model-tracker/internal/pkg/config"
)

// WorkerMetrics tracks scheduled fetch runs.
//
//   - worker_fetch_job_runs_total{status}: success or failure
//   - worker_fetch_job_duration_seconds
//   - worker_fetch_job_models_added_total
//   - worker_fetch_job_last_success_timestamp
//
// Config carries the worker_config_* load metrics.
type WorkerMetrics struct {
	Config *config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	ModelsAddedTotal     prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg, or with the default
// registerer when reg is nil.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &WorkerMetrics{
		Config: config.NewConfigMetrics("worker", reg),

		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_fetch_job_runs_total",
			Help: "Total number of scheduled fetch runs by status (success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_fetch_job_duration_seconds",
			Help:    "Duration of scheduled fetch runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ModelsAddedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "worker_fetch_job_models_added_total",
			Help: "Total number of models inserted by scheduled fetch runs",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_fetch_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled fetch",
		}),
	}
}

// RecordJobRun increments the run counter for "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordModelsAdded adds the models inserted by one run.
func (m *WorkerMetrics) RecordModelsAdded(count int) {
	if count > 0 {
		m.ModelsAddedTotal.Add(float64(count))
	}
}

// RecordLastSuccess stamps the current time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
