package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"model-tracker/internal/common/pagination"
	"model-tracker/internal/domain/entity"
	"model-tracker/internal/repository"
)

// ListParams filters and pages the model listing. Provider and Type match
// case-insensitive substrings.
type ListParams struct {
	pagination.Params
	Provider string
	Type     string
}

// Service provides model query use cases.
type Service struct {
	Repo       repository.ModelRepository
	Cache      repository.ModelCache
	Pagination pagination.Config
}

// NewService creates a model query Service.
func NewService(repo repository.ModelRepository, cache repository.ModelCache, pg pagination.Config) *Service {
	return &Service{Repo: repo, Cache: cache, Pagination: pg}
}

// List returns models ordered by release date, newest first. Only the
// default query (first page, default limit, no filters) is served from and
// written to the cache; cached reports a cache hit.
func (s *Service) List(ctx context.Context, params ListParams) (models []*entity.Model, cached bool, err error) {
	params.Params = params.WithDefaults(s.Pagination)
	filter := repository.ModelFilter{
		Provider: strings.TrimSpace(params.Provider),
		Type:     strings.TrimSpace(params.Type),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	cacheable := filter.IsZero() && params.IsDefault(s.Pagination)

	if cacheable {
		if models, ok := s.Cache.GetModels(ctx); ok {
			return models, true, nil
		}
	}

	models, err = s.Repo.List(ctx, filter)
	if err != nil {
		return nil, false, fmt.Errorf("list models: %w", err)
	}
	if models == nil {
		models = []*entity.Model{}
	}
	if cacheable {
		s.Cache.SetModels(ctx, models)
	}
	return models, false, nil
}

// GetBySlug returns the model with the slug, from the cache when present.
func (s *Service) GetBySlug(ctx context.Context, slug string) (model *entity.Model, cached bool, err error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || slug != entity.Slugify(slug) {
		return nil, false, ErrInvalidSlug
	}

	if m, ok := s.Cache.GetModel(ctx, slug); ok {
		return m, true, nil
	}

	m, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, false, fmt.Errorf("get model by slug: %w", err)
	}
	if m == nil {
		return nil, false, ErrModelNotFound
	}
	s.Cache.SetModel(ctx, slug, m)
	return m, false, nil
}

// Timeline returns every stored model for the timeline view, newest first.
func (s *Service) Timeline(ctx context.Context) ([]*entity.Model, error) {
	if models, ok := s.Cache.GetTimeline(ctx); ok {
		return models, nil
	}
	models, err := s.Repo.List(ctx, repository.ModelFilter{})
	if err != nil {
		return nil, fmt.Errorf("list timeline models: %w", err)
	}
	if models == nil {
		models = []*entity.Model{}
	}
	s.Cache.SetTimeline(ctx, models)
	return models, nil
}

// LastFetchTime returns when the scheduled discovery last completed.
func (s *Service) LastFetchTime(ctx context.Context) (time.Time, bool) {
	return s.Cache.GetLastFetchTime(ctx)
}
