package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-tracker/internal/usecase/ingest"
)

type stubRunner struct {
	result   ingest.JobResult
	err      error
	deadline bool
	block    chan struct{}
	started  chan struct{}
}

func (s *stubRunner) RunFetchJob(ctx context.Context) (ingest.JobResult, error) {
	_, s.deadline = ctx.Deadline()
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func newJob(t *testing.T, runner FetchRunner) (*FetchJob, *WorkerMetrics) {
	t.Helper()
	cfg := DefaultConfig()
	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	return NewFetchJob(runner, &cfg, metrics, slog.New(slog.DiscardHandler)), metrics
}

func TestFetchJob_Success(t *testing.T) {
	runner := &stubRunner{result: ingest.JobResult{ModelsFound: 4, ModelsAdded: 3}}
	job, metrics := newJob(t, runner)

	assert.True(t, job.Run(context.Background()))
	assert.True(t, runner.deadline, "runner sees the job timeout")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ModelsAddedTotal))
	assert.Greater(t, testutil.ToFloat64(metrics.LastSuccessTimestamp), 0.0)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.JobDurationSeconds))

	s := job.Status()
	assert.False(t, s.Running)
	require.NotNil(t, s.LastRun)
	require.NotNil(t, s.LastSuccess)
	assert.Equal(t, 3, s.ModelsAdded)
	assert.Empty(t, s.LastError)
}

func TestFetchJob_Failure(t *testing.T) {
	runner := &stubRunner{err: errors.New("fetch new models: perplexity: 503")}
	job, metrics := newJob(t, runner)

	assert.True(t, job.Run(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.LastSuccessTimestamp))

	s := job.Status()
	require.NotNil(t, s.LastRun)
	assert.Nil(t, s.LastSuccess)
	assert.Contains(t, s.LastError, "perplexity: 503")
}

func TestFetchJob_SkipsOverlappingRun(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{}), started: make(chan struct{})}
	job, _ := newJob(t, runner)

	done := make(chan bool)
	go func() { done <- job.Run(context.Background()) }()

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}
	assert.True(t, job.Status().Running)
	assert.False(t, job.Run(context.Background()), "second run is skipped")

	close(runner.block)
	assert.True(t, <-done)
	assert.False(t, job.Status().Running)
}
