package model

import (
	"log/slog"
	"net/http"
	"strings"

	"model-tracker/internal/common/pagination"
	"model-tracker/internal/domain/entity"
	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/observability/logging"
	modelUC "model-tracker/internal/usecase/model"
)

// ListResponse is the body of GET /api/models.
type ListResponse struct {
	Models []*entity.Model `json:"models"`
	Cached bool            `json:"cached"`
}

type ListHandler struct {
	Svc           *modelUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists models, newest release first.
// Query parameters: limit (default 50), offset, provider and type
// (case-insensitive substrings).
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithRequestID(ctx, logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.String("error", err.Error()))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	models, cached, err := h.Svc.List(ctx, modelUC.ListParams{
		Params:   params,
		Provider: strings.TrimSpace(q.Get("provider")),
		Type:     strings.TrimSpace(q.Get("type")),
	})
	if err != nil {
		logger.Error("failed to list models",
			slog.String("error", respond.SanitizeError(err)),
			slog.Int("limit", params.Limit),
			slog.Int("offset", params.Offset))
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch models")
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{Models: models, Cached: cached})
}
