package model

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/observability/logging"
	modelUC "model-tracker/internal/usecase/model"
	"model-tracker/internal/usecase/timeline"
)

// TimelineResponse is the body of GET /api/timeline.
type TimelineResponse struct {
	timeline.View
	LastFetch *time.Time `json:"lastFetch"`
}

type TimelineHandler struct {
	Svc *modelUC.Service

	// Now returns the current time; tests override it.
	Now func() time.Time
}

// ServeHTTP returns the release timeline grouped by day. Query parameters:
// q (search), provider and type. provider and type may repeat or hold
// comma-separated values.
func (h TimelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	models, err := h.Svc.Timeline(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("failed to load timeline",
			slog.String("error", respond.SanitizeError(err)))
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch timeline")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	q := r.URL.Query()
	resp := TimelineResponse{
		View: timeline.Build(models, timeline.Criteria{
			Query:     q.Get("q"),
			Providers: splitValues(q["provider"]),
			Types:     splitValues(q["type"]),
		}, now()),
	}
	if t, ok := h.Svc.LastFetchTime(ctx); ok {
		resp.LastFetch = &t
	}
	respond.JSON(w, http.StatusOK, resp)
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
