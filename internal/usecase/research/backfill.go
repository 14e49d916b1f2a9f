package research

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/observability/metrics"
	"model-tracker/internal/observability/tracing"
)

const (
	minBackfillYear = 2015

	// maxBackfillDays bounds a date range backfill.
	maxBackfillDays = 366
)

// BackfillMonth discovers and researches the releases of one calendar month.
func (s *Service) BackfillMonth(ctx context.Context, year, month int, progress Progress) ([]*entity.Model, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidBackfill, month)
	}
	if maxYear := s.cfg.Now().Year() + 1; year < minBackfillYear || year > maxYear {
		return nil, fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidBackfill, minBackfillYear, maxYear, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.backfill(ctx, start, end, progress)
}

// BackfillDateRange discovers and researches the releases between start
// and end (YYYY-MM-DD, inclusive).
func (s *Service) BackfillDateRange(ctx context.Context, start, end string, progress Progress) ([]*entity.Model, error) {
	from, err := time.Parse(entity.DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must be YYYY-MM-DD, got %q", ErrInvalidBackfill, start)
	}
	to, err := time.Parse(entity.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end date must be YYYY-MM-DD, got %q", ErrInvalidBackfill, end)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidBackfill, start, end)
	}
	if from.Year() < minBackfillYear {
		return nil, fmt.Errorf("%w: dates before %d are not supported", ErrInvalidBackfill, minBackfillYear)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxBackfillDays {
		return nil, fmt.Errorf("%w: range spans %d days, at most %d allowed", ErrInvalidBackfill, days, maxBackfillDays)
	}
	return s.backfill(ctx, from, to, progress)
}

// WeeklyWindows splits [start, end] into 7-day windows; the last one is
// clamped to end. For a calendar month this yields days 1-7, 8-14, 15-21,
// 22-28 and 29 to the end of the month.
func WeeklyWindows(start, end time.Time) []entity.DateWindow {
	var windows []entity.DateWindow
	for from := start; !from.After(end); from = from.AddDate(0, 0, 7) {
		to := from.AddDate(0, 0, 6)
		if to.After(end) {
			to = end
		}
		windows = append(windows, entity.DateWindow{Start: from, End: to})
	}
	return windows
}

func (s *Service) backfill(ctx context.Context, start, end time.Time, progress Progress) ([]*entity.Model, error) {
	ctx, span := tracing.StartSpan(ctx, "research.Backfill")
	defer span.End()

	if s.providers.Discoverer == nil {
		return nil, ErrNoDiscoveryProvider
	}

	windows := WeeklyWindows(start, end)
	seen := make(map[string]bool)
	var unique []entity.DiscoveredModel

	for i, w := range windows {
		if i > 0 {
			if err := sleep(ctx, s.cfg.WindowDelay); err != nil {
				return nil, err
			}
		}
		progress.log("Searching %s (window %d/%d)", w, i+1, len(windows))
		found, err := s.providers.Discoverer.DiscoverWindow(ctx, w)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			progress.log("Discovery failed for %s: %v", w, err)
			slog.WarnContext(ctx, "backfill window failed", slog.String("window", w.String()), slog.Any("error", err))
			continue
		}

		added := 0
		for _, d := range found {
			key := d.Key()
			if d.Name == "" || seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, d)
			added++
		}
		progress.log("Found %d candidates, %d new", len(found), added)
	}

	metrics.RecordDiscovered(entity.CronJobBackfill, len(unique))
	progress.log("Discovered %d unique models across %d windows", len(unique), len(windows))

	models := make([]*entity.Model, 0, len(unique))
	for i, d := range unique {
		if i > 0 {
			if err := sleep(ctx, s.cfg.ItemDelay); err != nil {
				return models, err
			}
		}
		progress.log("Researching %d/%d: %s (%s)", i+1, len(unique), d.Name, d.Provider)
		m, err := s.ResearchModel(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return models, ctx.Err()
			}
			progress.log("Research failed for %s: %v", d.Name, err)
			continue
		}
		models = append(models, m)
	}
	progress.log("Researched %d models", len(models))
	return models, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
