package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/usecase/ingest"
)

// FetchRunner runs one discovery and persistence pass.
type FetchRunner interface {
	RunFetchJob(ctx context.Context) (ingest.JobResult, error)
}

// JobStatus describes the most recent run.
type JobStatus struct {
	Running     bool       `json:"running"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	ModelsAdded int        `json:"modelsAdded"`
}

// FetchJob adapts a FetchRunner to the cron scheduler. Overlapping ticks are
// skipped rather than queued.
type FetchJob struct {
	runner  FetchRunner
	timeout time.Duration
	metrics *WorkerMetrics
	logger  *slog.Logger
	now     func() time.Time

	running atomic.Bool
	mu      sync.Mutex
	status  JobStatus
}

// NewFetchJob wires a runner with the configured timeout.
func NewFetchJob(runner FetchRunner, cfg *WorkerConfig, metrics *WorkerMetrics, logger *slog.Logger) *FetchJob {
	return &FetchJob{
		runner:  runner,
		timeout: cfg.JobTimeout,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one pass under the job timeout. It reports false when a
// previous pass is still in flight.
func (j *FetchJob) Run(ctx context.Context) bool {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Warn("fetch skipped, previous run still in progress")
		return false
	}
	defer j.running.Store(false)

	start := j.now()
	j.logger.Info("fetch started")

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	result, err := j.runner.RunFetchJob(ctx)
	elapsed := j.now().Sub(start)

	j.mu.Lock()
	j.status.LastRun = &start
	if err != nil {
		j.status.LastError = respond.SanitizeError(err)
	} else {
		j.status.LastError = ""
		j.status.LastSuccess = &start
		j.status.ModelsAdded = result.ModelsAdded
	}
	j.mu.Unlock()

	if j.metrics != nil {
		j.metrics.RecordJobDuration(elapsed.Seconds())
	}
	if err != nil {
		j.logger.Error("fetch failed", slog.String("error", respond.SanitizeError(err)))
		if j.metrics != nil {
			j.metrics.RecordJobRun("failure")
		}
		return true
	}

	if j.metrics != nil {
		j.metrics.RecordJobRun("success")
		j.metrics.RecordModelsAdded(result.ModelsAdded)
		j.metrics.RecordLastSuccess()
	}
	j.logger.Info("fetch completed",
		slog.Int("models_found", result.ModelsFound),
		slog.Int("models_added", result.ModelsAdded),
		slog.Duration("duration", elapsed))
	return true
}

// Status returns a snapshot of the most recent run.
func (j *FetchJob) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := j.status
	s.Running = j.running.Load()
	return s
}
