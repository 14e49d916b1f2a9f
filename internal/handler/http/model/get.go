package model

import (
	"errors"
	"log/slog"
	"net/http"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/handler/http/respond"
	"model-tracker/internal/observability/logging"
	modelUC "model-tracker/internal/usecase/model"
)

// GetResponse is the body of GET /api/models/{slug}.
type GetResponse struct {
	Model  *entity.Model `json:"model"`
	Cached bool          `json:"cached"`
}

type GetHandler struct{ Svc *modelUC.Service }

// ServeHTTP returns one model by slug, or 404 {"error":"Model not found"}.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, cached, err := h.Svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, modelUC.ErrModelNotFound) || errors.Is(err, modelUC.ErrInvalidSlug) {
			respond.Error(w, http.StatusNotFound, "Model not found")
			return
		}
		logging.FromContext(r.Context()).Error("failed to fetch model",
			slog.String("slug", r.PathValue("slug")),
			slog.String("error", respond.SanitizeError(err)))
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch model")
		return
	}
	respond.JSON(w, http.StatusOK, GetResponse{Model: m, Cached: cached})
}
