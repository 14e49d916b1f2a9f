package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/observability/logging"
	"model-tracker/internal/usecase/ingest"
	"model-tracker/internal/usecase/research"
)

// BackfillRunner runs a historical backfill.
type BackfillRunner interface {
	RunBackfill(ctx context.Context, req ingest.BackfillRequest) (*ingest.BackfillResult, error)
}

// BackfillResponse is the success body of POST /api/backfill.
type BackfillResponse struct {
	Success bool `json:"success"`
	*ingest.BackfillResult
}

const missingRangeMessage = "Please provide either {year, month} or {startDate, endDate}"

type BackfillHandler struct {
	Runner  BackfillRunner
	Auth    Auth
	Timeout time.Duration
}

// ServeHTTP runs a backfill for the month or date range in the JSON body.
func (h BackfillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.AllowManual(r) {
		unauthorized(w)
		return
	}

	var req ingest.BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := jobContext(r, h.Timeout)
	defer cancel()
	result, err := h.Runner.RunBackfill(ctx, req)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, BackfillResponse{Success: true, BackfillResult: result})
	case errors.Is(err, ingest.ErrInvalidBackfillRequest):
		respond.Error(w, http.StatusBadRequest, missingRangeMessage)
	case errors.Is(err, research.ErrInvalidBackfill):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		logging.FromContext(r.Context()).Error("backfill failed", slog.String("error", respond.SanitizeError(err)))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// BackfillUsage is the body of GET /api/backfill.
type BackfillUsage struct {
	Message string `json:"message"`
	Usage   struct {
		Method  string            `json:"method"`
		Headers map[string]string `json:"headers"`
		Body    map[string]any    `json:"body"`
	} `json:"usage"`
}

// UsageHandler documents the backfill endpoint.
type UsageHandler struct{}

func (UsageHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var u BackfillUsage
	u.Message = "Backfill API"
	u.Usage.Method = http.MethodPost
	u.Usage.Headers = map[string]string{
		"Authorization": "Bearer YOUR_CRON_SECRET",
		"Content-Type":  "application/json",
	}
	u.Usage.Body = map[string]any{
		"option1": ingest.BackfillRequest{Year: 2024, Month: 12},
		"option2": ingest.BackfillRequest{StartDate: "2024-12-01", EndDate: "2024-12-31"},
	}
	respond.JSON(w, http.StatusOK, u)
}
