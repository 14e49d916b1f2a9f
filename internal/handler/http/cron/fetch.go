package cron

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/observability/logging"
	"model-tracker/internal/usecase/ingest"
)

// DefaultJobTimeout bounds a job started over HTTP when the handler sets none.
const DefaultJobTimeout = 30 * time.Minute

// jobContext detaches a job from its request: a client that disconnects
// does not cancel it. Request values such as the request id are kept.
func jobContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
}

// FetchRunner runs the model discovery job.
type FetchRunner interface {
	RunFetchJob(ctx context.Context) (ingest.JobResult, error)
}

// FetchResponse is the success body of the fetch job endpoint.
type FetchResponse struct {
	Success bool `json:"success"`
	ingest.JobResult
}

// FailureResponse is returned when a job fails.
type FailureResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type FetchHandler struct {
	Runner  FetchRunner
	Auth    Auth
	Timeout time.Duration
}

// ServeHTTP runs the discovery job. GET is the scheduled trigger and POST
// the manual one.
func (h FetchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	allowed := h.Auth.AllowScheduled(r)
	if r.Method == http.MethodPost {
		allowed = h.Auth.AllowManual(r)
	}
	if !allowed {
		unauthorized(w)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("starting cron job", slog.String("job", "fetch-models"), slog.String("method", r.Method))

	ctx, cancel := jobContext(r, h.Timeout)
	defer cancel()
	result, err := h.Runner.RunFetchJob(ctx)
	if err != nil {
		msg := respond.SanitizeError(err)
		logger.Error("cron job failed", slog.String("job", "fetch-models"), slog.String("error", msg))
		respond.JSON(w, http.StatusInternalServerError, FailureResponse{Error: "Cron job failed", Message: msg})
		return
	}
	respond.JSON(w, http.StatusOK, FetchResponse{Success: true, JobResult: result})
}
