// Package research discovers new AI model releases through LLM discovery
// passes and enriches each candidate into a full model record.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/observability/metrics"
	"model-tracker/internal/observability/tracing"
	"model-tracker/internal/pkg/config"
)

// Progress receives human-readable progress lines. It may be nil.
type Progress func(msg string)

func (p Progress) log(format string, args ...any) {
	if p != nil {
		p(fmt.Sprintf(format, args...))
	}
}

// Config tunes research pacing.
type Config struct {
	// WindowDelay separates consecutive discovery passes of a backfill.
	WindowDelay time.Duration

	// ItemDelay separates consecutive model researches of a backfill.
	ItemDelay time.Duration

	// MaxComparisons caps comparisons filled in from web search.
	MaxComparisons int

	// Now returns the current time; tests override it.
	Now func() time.Time
}

// DefaultConfig returns the production pacing.
func DefaultConfig() Config {
	return Config{
		WindowDelay:    2 * time.Second,
		ItemDelay:      time.Second,
		MaxComparisons: 5,
		Now:            time.Now,
	}
}

// ConfigFromProfile applies the research section of a profile on top of
// the defaults.
func ConfigFromProfile(p *config.Profile) Config {
	cfg := DefaultConfig()
	if p == nil {
		return cfg
	}
	if p.Research.WindowDelay > 0 {
		cfg.WindowDelay = p.Research.WindowDelay
	}
	if p.Research.ItemDelay > 0 {
		cfg.ItemDelay = p.Research.ItemDelay
	}
	return cfg
}

// Service runs discovery and enrichment.
type Service struct {
	providers Providers
	scraper   Scraper
	cfg       Config
}

// NewService creates a research service. scraper may be nil.
func NewService(providers Providers, scraper Scraper, cfg Config) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxComparisons <= 0 {
		cfg.MaxComparisons = 5
	}
	return &Service{providers: providers, scraper: scraper, cfg: cfg}
}

// FetchNewModels runs one discovery pass for today and the past 24 hours
// and researches every candidate in turn. A failed discovery pass yields
// no models; a candidate that fails research is logged and skipped. Only a
// missing discovery provider or a cancelled context is an error.
func (s *Service) FetchNewModels(ctx context.Context) ([]*entity.Model, error) {
	ctx, span := tracing.StartSpan(ctx, "research.FetchNewModels")
	defer span.End()

	if s.providers.Discoverer == nil {
		return nil, ErrNoDiscoveryProvider
	}

	slog.InfoContext(ctx, "starting model discovery")
	discovered, err := s.providers.Discoverer.DiscoverLatest(ctx, s.cfg.Now())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		tracing.RecordError(span, err)
		metrics.RecordDiscoveryFailure(entity.CronJobFetchModels)
		slog.WarnContext(ctx, "discovery failed, treating as no releases",
			slog.String("provider", s.providers.Discoverer.Name()),
			slog.Any("error", err))
		return []*entity.Model{}, nil
	}
	metrics.RecordDiscovered(entity.CronJobFetchModels, len(discovered))
	slog.InfoContext(ctx, "discovery finished", slog.Int("candidates", len(discovered)))

	models := make([]*entity.Model, 0, len(discovered))
	for _, d := range discovered {
		m, err := s.ResearchModel(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return models, ctx.Err()
			}
			slog.WarnContext(ctx, "model research failed",
				slog.String("name", d.Name),
				slog.Any("error", err))
			continue
		}
		models = append(models, m)
	}
	return models, nil
}

// ResearchModel enriches one candidate. Details, social posts and the
// announcement page are looked up concurrently, then web search fills
// missing benchmarks and comparisons, then the article is generated.
// Provider failures fall back to defaults rather than failing the model.
func (s *Service) ResearchModel(ctx context.Context, d entity.DiscoveredModel) (*entity.Model, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, ErrInvalidCandidate
	}
	provider := strings.TrimSpace(d.Provider)
	if provider == "" {
		provider = entity.UnknownProvider
	}

	ctx, span := tracing.StartSpan(ctx, "research.ResearchModel")
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordResearchDuration(time.Since(start)) }()

	logger := slog.Default().With(slog.String("model", name), slog.String("provider", provider))
	logger.InfoContext(ctx, "researching model")

	var (
		details  *entity.ModelDetails
		posts    []entity.SocialPost
		imageURL string
		excerpt  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = runChain(gctx, "details", s.providers.Details,
			func(ctx context.Context, p DetailsProvider) (*entity.ModelDetails, error) {
				return p.Details(ctx, name, provider)
			},
			func(v *entity.ModelDetails) bool { return v.IsEmpty() })
		if err != nil {
			logger.WarnContext(gctx, "details unavailable", slog.Any("error", err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = runChain(gctx, "social", s.providers.Social,
			func(ctx context.Context, p SocialProvider) ([]entity.SocialPost, error) {
				return p.SocialPosts(ctx, name, provider)
			},
			func(v []entity.SocialPost) bool { return len(v) == 0 })
		if err != nil {
			logger.DebugContext(gctx, "social posts unavailable", slog.Any("error", err))
		}
		return nil
	})
	if s.scraper != nil && d.SourceURL != "" {
		g.Go(func() error {
			var err error
			imageURL, excerpt, err = s.scraper.Announcement(gctx, d.SourceURL)
			if err != nil {
				logger.DebugContext(gctx, "announcement page unavailable", slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if details == nil {
		details = &entity.ModelDetails{}
	}
	s.supplementFromSearch(ctx, logger, name, provider, details)

	content, err := runChain(ctx, "content", s.providers.Content,
		func(ctx context.Context, p ContentGenerator) (string, error) {
			return p.GenerateContent(ctx, name, provider, details, excerpt)
		},
		func(v string) bool { return strings.TrimSpace(v) == "" })
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.WarnContext(ctx, "content generation unavailable", slog.Any("error", err))
	}

	return s.buildModel(d, name, provider, details, posts, content, imageURL), nil
}

// supplementFromSearch fills benchmark keys the details lack and, when
// the details carry no comparisons, adds comparisons mined from search.
func (s *Service) supplementFromSearch(ctx context.Context, logger *slog.Logger, name, provider string, details *entity.ModelDetails) {
	if s.scraper == nil {
		return
	}
	bench, err := s.scraper.Benchmarks(ctx, name, provider)
	if err != nil {
		logger.DebugContext(ctx, "benchmark search unavailable", slog.Any("error", err))
	}
	for k, v := range bench {
		if details.Benchmarks == nil {
			details.Benchmarks = entity.Benchmarks{}
		}
		if _, ok := details.Benchmarks[k]; !ok {
			details.Benchmarks[k] = v
		}
	}

	if len(details.Comparisons) > 0 {
		return
	}
	comps, err := s.scraper.Comparisons(ctx, name, provider)
	if err != nil {
		logger.DebugContext(ctx, "comparison search unavailable", slog.Any("error", err))
		return
	}
	if len(comps) > s.cfg.MaxComparisons {
		comps = comps[:s.cfg.MaxComparisons]
	}
	details.Comparisons = comps
}

func (s *Service) buildModel(d entity.DiscoveredModel, name, provider string, details *entity.ModelDetails, posts []entity.SocialPost, content, imageURL string) *entity.Model {
	now := s.cfg.Now()
	release := parseReleaseDate(d.ReleaseDate, now)

	description := details.Description
	if description == "" {
		description = name + " by " + provider
	}
	modelType := details.ModelType
	if modelType == "" {
		modelType = entity.ModelTypeLLM
	}
	announcementURL := d.SourceURL
	if entity.ValidateURL(announcementURL) != nil {
		announcementURL = details.AnnouncementURL
	}

	m := &entity.Model{
		Name:             name,
		Slug:             entity.Slugify(name),
		Provider:         provider,
		ReleaseDate:      release,
		AnnouncementDate: &release,
		Description:      description,
		ModelType:        modelType,
		Parameters:       details.Parameters,
		ContextWindow:    details.ContextWindow,
		IsAvailable:      true,
		PricingInfo:      details.PricingInfo,
		DocumentationURL: details.DocumentationURL,
		AnnouncementURL:  announcementURL,
		PaperURL:         details.PaperURL,
		Benchmarks:       details.Benchmarks,
		SocialPosts:      posts,
		Comparisons:      details.Comparisons,
		FullContent:      content,
		ImageURL:         imageURL,
		Tags:             []string{strings.ToLower(modelType), strings.ToLower(provider)},
		Highlights:       details.Highlights,
		FetchedAt:        &now,
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
	if m.Highlights == nil {
		m.Highlights = []string{}
	}
	return m
}

// parseReleaseDate accepts YYYY-MM-DD or RFC 3339 and falls back to now.
func parseReleaseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(entity.DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if len(s) > len(entity.DateLayout) {
		if t, err := time.Parse(entity.DateLayout, s[:len(entity.DateLayout)]); err == nil {
			return t
		}
	}
	return now
}
