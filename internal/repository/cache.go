package repository

import (
	"context"
	"time"

	"model-tracker/internal/domain/entity"
)

// ModelCache is the read-through cache in front of the model repository.
// Lookups report a miss instead of an error; a failing backend degrades to
// a cache that never hits.
type ModelCache interface {
	// GetModels returns the cached default listing.
	GetModels(ctx context.Context) ([]*entity.Model, bool)
	SetModels(ctx context.Context, models []*entity.Model)

	GetModel(ctx context.Context, slug string) (*entity.Model, bool)
	SetModel(ctx context.Context, slug string, model *entity.Model)

	// GetTimeline returns the model list backing the timeline view.
	GetTimeline(ctx context.Context) ([]*entity.Model, bool)
	SetTimeline(ctx context.Context, models []*entity.Model)

	// Invalidate drops every cached listing and model detail. The last
	// fetch time is kept.
	Invalidate(ctx context.Context)

	SetLastFetchTime(ctx context.Context, t time.Time)
	GetLastFetchTime(ctx context.Context) (time.Time, bool)

	Ping(ctx context.Context) error
}
