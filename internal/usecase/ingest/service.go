// Package ingest stores researched models and runs the scheduled fetch job
// and historical backfills on top of the research use case.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/observability/metrics"
	"model-tracker/internal/observability/tracing"
	"model-tracker/internal/repository"
	"model-tracker/internal/usecase/notify"
	"model-tracker/internal/usecase/research"
)

// logTimeLayout matches the millisecond ISO 8601 stamps of backfill logs.
const logTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Researcher discovers and enriches model releases.
type Researcher interface {
	FetchNewModels(ctx context.Context) ([]*entity.Model, error)
	BackfillMonth(ctx context.Context, year, month int, progress research.Progress) ([]*entity.Model, error)
	BackfillDateRange(ctx context.Context, start, end string, progress research.Progress) ([]*entity.Model, error)
}

// Summary counts the outcome of a persistence pass.
type Summary struct {
	Discovered int `json:"discovered"`
	Inserted   int `json:"inserted"`
	Skipped    int `json:"skipped"`
}

// JobResult is reported by the scheduled fetch job.
type JobResult struct {
	ModelsFound     int   `json:"modelsFound"`
	ModelsAdded     int   `json:"modelsAdded"`
	ExecutionTimeMs int64 `json:"executionTimeMs"`
}

// BackfillRequest selects a calendar month or an explicit date range.
type BackfillRequest struct {
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// UnmarshalJSON accepts year and month as numbers or numeric strings.
func (r *BackfillRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		Year      json.RawMessage `json:"year"`
		Month     json.RawMessage `json:"month"`
		StartDate string          `json:"startDate"`
		EndDate   string          `json:"endDate"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	year, err := looseInt(raw.Year)
	if err != nil {
		return fmt.Errorf("year: %w", err)
	}
	month, err := looseInt(raw.Month)
	if err != nil {
		return fmt.Errorf("month: %w", err)
	}
	*r = BackfillRequest{Year: year, Month: month, StartDate: raw.StartDate, EndDate: raw.EndDate}
	return nil
}

func looseInt(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return 0, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	return n, nil
}

// BackfillResult is the summary of a backfill and its timestamped log.
type BackfillResult struct {
	Summary Summary  `json:"summary"`
	Logs    []string `json:"logs"`
}

// Service persists researched models.
type Service struct {
	Models   repository.ModelRepository
	News     repository.NewsRepository
	CronLogs repository.CronLogRepository
	Cache    repository.ModelCache
	Research Researcher
	Notify   notify.Service

	// Now returns the current time; tests override it.
	Now func() time.Time
}

// NewService creates an ingest Service. notifySvc may be nil.
func NewService(
	models repository.ModelRepository,
	news repository.NewsRepository,
	cronLogs repository.CronLogRepository,
	cache repository.ModelCache,
	researcher Researcher,
	notifySvc notify.Service,
) *Service {
	return &Service{
		Models:   models,
		News:     news,
		CronLogs: cronLogs,
		Cache:    cache,
		Research: researcher,
		Notify:   notifySvc,
		Now:      time.Now,
	}
}

// Persist stores backfilled models. Models without a name or slug, or
// whose slug is already stored, are skipped, as is any model whose insert
// fails. The model cache is invalidated afterwards. Only the fetch job adds
// news entries and announcements for what it stores.
func (s *Service) Persist(ctx context.Context, models []*entity.Model, progress research.Progress) Summary {
	return s.persist(ctx, entity.CronJobBackfill, models, progress)
}

func (s *Service) persist(ctx context.Context, job string, models []*entity.Model, progress research.Progress) Summary {
	ctx, span := tracing.StartSpan(ctx, "ingest.Persist")
	defer span.End()

	report := func(format string, args ...any) {
		if progress != nil {
			progress(fmt.Sprintf(format, args...))
		}
	}

	summary := Summary{Discovered: len(models)}
	for _, m := range models {
		if m == nil || strings.TrimSpace(m.Name) == "" || m.Slug == "" {
			summary.Skipped++
			metrics.RecordSkipped("invalid")
			report("Skipping model without name or slug")
			continue
		}

		exists, err := s.Models.ExistsBySlug(ctx, m.Slug)
		if err != nil {
			summary.Skipped++
			metrics.RecordSkipped("error")
			report("Failed to check %s: %v", m.Name, err)
			slog.ErrorContext(ctx, "slug lookup failed", slog.String("slug", m.Slug), slog.Any("error", err))
			continue
		}
		if exists {
			summary.Skipped++
			metrics.RecordSkipped("exists")
			report("Skipped %s (already exists)", m.Name)
			continue
		}

		s.applyDefaults(m)
		if err := s.Models.Create(ctx, m); err != nil {
			summary.Skipped++
			if errors.Is(err, entity.ErrDuplicateSlug) {
				metrics.RecordSkipped("exists")
				report("Skipped %s (already exists)", m.Name)
				continue
			}
			metrics.RecordSkipped("error")
			report("Failed to insert %s: %v", m.Name, err)
			slog.ErrorContext(ctx, "model insert failed", slog.String("slug", m.Slug), slog.Any("error", err))
			continue
		}
		summary.Inserted++
		report("Inserted %s (%s)", m.Name, m.Provider)
		slog.InfoContext(ctx, "model inserted",
			slog.String("slug", m.Slug),
			slog.String("provider", m.Provider),
			slog.String("job", job))

		if job == entity.CronJobFetchModels {
			s.recordRelease(ctx, m)
			if s.Notify != nil {
				s.Notify.NotifyNewModel(ctx, m)
			}
		}
	}

	metrics.RecordInserted(job, summary.Inserted)
	s.Cache.Invalidate(ctx)
	if total, err := s.Models.Count(ctx, repository.ModelFilter{}); err == nil {
		metrics.UpdateModelsTotal(total)
	}
	return summary
}

func (s *Service) applyDefaults(m *entity.Model) {
	if m.Provider == "" {
		m.Provider = entity.UnknownProvider
	}
	if m.ReleaseDate.IsZero() {
		m.ReleaseDate = s.Now().UTC()
	}
	if m.Benchmarks == nil {
		m.Benchmarks = entity.Benchmarks{}
	}
	if m.SocialPosts == nil {
		m.SocialPosts = []entity.SocialPost{}
	}
	if m.Comparisons == nil {
		m.Comparisons = []entity.Comparison{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Highlights == nil {
		m.Highlights = []string{}
	}
}

// recordRelease adds the news feed entry of a newly stored model. Failure
// is logged; the model stays stored.
func (s *Service) recordRelease(ctx context.Context, m *entity.Model) {
	entry := &entity.NewsEntry{
		ModelID:     m.ID,
		Title:       "New Model Release: " + m.Name,
		Summary:     m.Description,
		SourceURL:   m.AnnouncementURL,
		SourceName:  m.Provider,
		PublishedAt: m.ReleaseDate,
		NewsType:    entity.NewsTypeRelease,
	}
	if err := s.News.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "news entry insert failed", slog.String("slug", m.Slug), slog.Any("error", err))
	}
}

// RunFetchJob runs one scheduled discovery pass, stores the new models and
// records the run in cron_logs. A failed discovery pass counts as a run
// that found nothing. When research is interrupted, the models researched
// so far are still stored, the run is logged as partial and the error is
// returned.
func (s *Service) RunFetchJob(ctx context.Context) (JobResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.RunFetchJob")
	defer span.End()

	start := s.Now()
	models, err := s.Research.FetchNewModels(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		// the caller's context may be gone; finish the bookkeeping anyway
		ctx = context.WithoutCancel(ctx)
		entry := &entity.CronLog{
			JobType:      entity.CronJobFetchModels,
			Status:       entity.CronStatusError,
			ModelsFound:  len(models),
			ErrorMessage: err.Error(),
		}
		result := JobResult{ModelsFound: len(models)}
		if len(models) > 0 {
			summary := s.persist(ctx, entity.CronJobFetchModels, models, nil)
			result.ModelsAdded = summary.Inserted
			entry.Status = entity.CronStatusPartial
			entry.ModelsAdded = summary.Inserted
		}
		result.ExecutionTimeMs = s.Now().Sub(start).Milliseconds()
		entry.ExecutionTimeMs = result.ExecutionTimeMs
		s.writeCronLog(ctx, entry)
		return result, fmt.Errorf("fetch new models: %w", err)
	}

	summary := s.persist(ctx, entity.CronJobFetchModels, models, nil)
	s.Cache.SetLastFetchTime(ctx, s.Now())

	result := JobResult{
		ModelsFound:     len(models),
		ModelsAdded:     summary.Inserted,
		ExecutionTimeMs: s.Now().Sub(start).Milliseconds(),
	}
	s.writeCronLog(ctx, &entity.CronLog{
		JobType:         entity.CronJobFetchModels,
		Status:          entity.CronStatusSuccess,
		ModelsFound:     result.ModelsFound,
		ModelsAdded:     result.ModelsAdded,
		ExecutionTimeMs: result.ExecutionTimeMs,
	})
	slog.InfoContext(ctx, "fetch job finished",
		slog.Int("models_found", result.ModelsFound),
		slog.Int("models_added", result.ModelsAdded),
		slog.Int64("execution_time_ms", result.ExecutionTimeMs))
	return result, nil
}

// RunBackfill discovers, researches and stores the releases of a month or
// date range. Each progress line is kept in the result prefixed with its
// ISO 8601 timestamp. A request carrying a year or month is a month
// backfill. When research is interrupted, the models researched so far are
// stored and returned in the result alongside the error.
func (s *Service) RunBackfill(ctx context.Context, req BackfillRequest) (*BackfillResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.RunBackfill")
	defer span.End()

	result := &BackfillResult{Logs: []string{}}
	progress := func(msg string) {
		result.Logs = append(result.Logs, fmt.Sprintf("[%s] %s", s.Now().UTC().Format(logTimeLayout), msg))
		slog.InfoContext(ctx, msg, slog.String("job", entity.CronJobBackfill))
	}

	start := s.Now()
	var (
		models []*entity.Model
		err    error
	)
	switch {
	case req.Year != 0 || req.Month != 0:
		progress(fmt.Sprintf("Starting backfill for %d-%02d", req.Year, req.Month))
		models, err = s.Research.BackfillMonth(ctx, req.Year, req.Month, progress)
	case req.StartDate != "" && req.EndDate != "":
		progress(fmt.Sprintf("Starting backfill from %s to %s", req.StartDate, req.EndDate))
		models, err = s.Research.BackfillDateRange(ctx, req.StartDate, req.EndDate, progress)
	default:
		return nil, ErrInvalidBackfillRequest
	}
	if err != nil {
		if errors.Is(err, research.ErrInvalidBackfill) {
			return nil, fmt.Errorf("backfill: %w", err)
		}
		tracing.RecordError(span, err)
		ctx = context.WithoutCancel(ctx)
		entry := &entity.CronLog{
			JobType:      entity.CronJobBackfill,
			Status:       entity.CronStatusError,
			ModelsFound:  len(models),
			ErrorMessage: err.Error(),
		}
		if len(models) > 0 {
			result.Summary = s.persist(ctx, entity.CronJobBackfill, models, progress)
			progress(fmt.Sprintf("Backfill interrupted: %d inserted, %d skipped", result.Summary.Inserted, result.Summary.Skipped))
			entry.Status = entity.CronStatusPartial
			entry.ModelsAdded = result.Summary.Inserted
		}
		entry.ExecutionTimeMs = s.Now().Sub(start).Milliseconds()
		s.writeCronLog(ctx, entry)
		return result, fmt.Errorf("backfill: %w", err)
	}

	result.Summary = s.persist(ctx, entity.CronJobBackfill, models, progress)
	progress(fmt.Sprintf("Backfill complete: %d inserted, %d skipped", result.Summary.Inserted, result.Summary.Skipped))

	s.writeCronLog(ctx, &entity.CronLog{
		JobType:         entity.CronJobBackfill,
		Status:          entity.CronStatusSuccess,
		ModelsFound:     result.Summary.Discovered,
		ModelsAdded:     result.Summary.Inserted,
		ExecutionTimeMs: s.Now().Sub(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) writeCronLog(ctx context.Context, entry *entity.CronLog) {
	if s.CronLogs == nil {
		return
	}
	if err := s.CronLogs.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "cron log insert failed",
			slog.String("job", entry.JobType),
			slog.Any("error", err))
	}
}
