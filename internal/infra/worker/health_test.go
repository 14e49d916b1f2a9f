package worker

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealthServer_Probes(t *testing.T) {
	at := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	server := NewHealthServer(":0", slog.New(slog.DiscardHandler), func() JobStatus {
		return JobStatus{LastRun: &at, LastSuccess: &at, ModelsAdded: 2}
	})
	h := server.Handler()

	rr := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"not ready"}`, rr.Body.String())

	server.SetReady(true)
	rr = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rr.Code)

	server.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/health/ready").Code)

	rr = get(t, h, "/health/job")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"running": false,
		"lastRun": "2025-03-14T08:00:00Z",
		"lastSuccess": "2025-03-14T08:00:00Z",
		"modelsAdded": 2
	}`, rr.Body.String())
}

func TestHealthServer_JobWithoutStatus(t *testing.T) {
	rr := get(t, NewHealthServer(":0", slog.New(slog.DiscardHandler), nil).Handler(), "/health/job")
	assert.JSONEq(t, `{"running":false,"modelsAdded":0}`, rr.Body.String())
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := NewHealthServer(addr, slog.New(slog.DiscardHandler), nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, http.ErrServerClosed))
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down")
	}
}
