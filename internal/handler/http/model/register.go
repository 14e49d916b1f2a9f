// Package model serves the read-only model API: the paginated listing,
// model detail by slug and the release timeline.
package model

import (
	"log/slog"
	"net/http"

	"model-tracker/internal/common/pagination"
	modelUC "model-tracker/internal/usecase/model"
)

// Register registers the model and timeline handlers with the given mux.
func Register(mux *http.ServeMux, svc *modelUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /api/models", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /api/models/{slug}", GetHandler{Svc: svc})
	mux.Handle("GET /api/timeline", TimelineHandler{Svc: svc})
}
