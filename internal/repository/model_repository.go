package repository

import (
	"context"

	"model-tracker/internal/domain/entity"
)

// ModelFilter contains the optional filters for listing models.
// Provider and Type are matched case-insensitively as substrings.
type ModelFilter struct {
	Provider string
	Type     string
	Limit    int
	Offset   int
}

// IsZero reports whether no provider or type filter is set.
func (f ModelFilter) IsZero() bool {
	return f.Provider == "" && f.Type == ""
}

type ModelRepository interface {
	// ExistsBySlug reports whether a model with the slug is already stored.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	// GetBySlug returns (nil, nil) when no model has the slug.
	GetBySlug(ctx context.Context, slug string) (*entity.Model, error)
	// Create inserts the model, assigning a UUID when ID is empty.
	Create(ctx context.Context, model *entity.Model) error
	// List returns models ordered by release_date DESC.
	List(ctx context.Context, filter ModelFilter) ([]*entity.Model, error)
	Count(ctx context.Context, filter ModelFilter) (int64, error)
}

type NewsRepository interface {
	Create(ctx context.Context, entry *entity.NewsEntry) error
	// ListRecent returns the newest entries by published_at.
	ListRecent(ctx context.Context, limit int) ([]*entity.NewsEntry, error)
}

type CronLogRepository interface {
	Create(ctx context.Context, log *entity.CronLog) error
	ListRecent(ctx context.Context, limit int) ([]*entity.CronLog, error)
}
