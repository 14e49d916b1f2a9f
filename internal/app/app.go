// Package app assembles the services shared by the api, worker and
// backfill binaries from environment configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"model-tracker/internal/common/pagination"
	pgRepo "model-tracker/internal/infra/adapter/persistence/postgres"
	"model-tracker/internal/infra/cache"
	"model-tracker/internal/infra/db"
	"model-tracker/internal/infra/llm"
	"model-tracker/internal/infra/notifier"
	"model-tracker/internal/infra/scraper"
	"model-tracker/internal/pkg/config"
	"model-tracker/internal/repository"
	"model-tracker/internal/resilience/circuitbreaker"
	"model-tracker/internal/usecase/ingest"
	modelUC "model-tracker/internal/usecase/model"
	"model-tracker/internal/usecase/notify"
	"model-tracker/internal/usecase/research"
	envconfig "model-tracker/pkg/config"
)

// Options selects optional components.
type Options struct {
	// Migrate applies pending schema migrations after connecting.
	Migrate bool

	// Notify enables Discord and Slack announcements of new releases.
	Notify bool
}

// Components are the wired services of one process.
type Components struct {
	DB         *sql.DB
	Breakers   *circuitbreaker.Registry
	Cache      repository.ModelCache
	CacheOn    bool
	Models     repository.ModelRepository
	Research   *research.Service
	Notify     notify.Service
	Ingest     *ingest.Service
	ModelQuery *modelUC.Service
	Pagination pagination.Config
}

// New connects to Postgres and Redis and builds the research pipeline.
//
// Environment variables:
//   - DATABASE_URL (required)
//   - REDIS_URL (optional, caching is disabled without it)
//   - RESEARCH_PROFILE (optional YAML profile path)
//   - provider, scraper and notifier variables read by their packages
func New(ctx context.Context, logger *slog.Logger, opts Options) (*Components, error) {
	profile, err := config.LoadProfile(envconfig.GetEnvString("RESEARCH_PROFILE", ""))
	if err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, envconfig.GetEnvString("DATABASE_URL", ""), db.ConnectionConfigFromEnv())
	if err != nil {
		return nil, err
	}
	c := &Components{DB: database, Breakers: circuitbreaker.NewRegistry()}

	if opts.Migrate {
		if err := db.MigrateUp(ctx, database); err != nil {
			_ = c.Close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	cacheCfg := cache.LoadConfigFromEnv()
	c.Cache, err = cache.New(cacheCfg)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.CacheOn = cacheCfg.Enabled()
	logger.Info("cache configured", slog.Bool("redis", c.CacheOn))

	set, err := llm.NewSet(ctx, llm.LoadConfig(profile), c.Breakers)
	if err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("llm providers: %w", err)
	}

	var web research.Scraper
	if s := newScraper(logger, profile, c.Breakers); s != nil {
		web = s
	}
	c.Research = research.NewService(BuildProviders(set), web, research.ConfigFromProfile(profile))

	if opts.Notify {
		c.Notify = notify.NewService(notifyChannels(logger), notify.Options{Breakers: c.Breakers})
	}

	c.Models = pgRepo.NewModelRepo(database)
	c.Ingest = ingest.NewService(
		c.Models,
		pgRepo.NewNewsRepo(database),
		pgRepo.NewCronLogRepo(database),
		c.Cache,
		c.Research,
		c.Notify,
	)
	c.Pagination = pagination.LoadFromEnv()
	c.ModelQuery = modelUC.NewService(c.Models, c.Cache, c.Pagination)
	return c, nil
}

// BuildProviders orders the configured providers into research chains:
// discovery on Perplexity, details on Grok then Claude, social posts on
// Gemini then Perplexity, articles on Gemini then Claude.
func BuildProviders(set *llm.Set) research.Providers {
	var p research.Providers
	if set == nil {
		return p
	}
	if set.Perplexity != nil {
		p.Discoverer = set.Perplexity
	}
	if set.Grok != nil {
		p.Details = append(p.Details, set.Grok)
	}
	if set.Claude != nil {
		p.Details = append(p.Details, set.Claude)
	}
	if set.Gemini != nil {
		p.Social = append(p.Social, set.Gemini)
	}
	if set.Perplexity != nil {
		p.Social = append(p.Social, set.Perplexity)
	}
	if set.Gemini != nil {
		p.Content = append(p.Content, set.Gemini)
	}
	if set.Claude != nil {
		p.Content = append(p.Content, set.Claude)
	}
	return p
}

func newScraper(logger *slog.Logger, profile *config.Profile, breakers *circuitbreaker.Registry) *scraper.Scraper {
	cfg, err := scraper.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("invalid scraper configuration, using defaults", slog.Any("error", err))
		def := scraper.DefaultConfig()
		def.Enabled, def.JinaAPIKey, def.TavilyAPIKey = cfg.Enabled, cfg.JinaAPIKey, cfg.TavilyAPIKey
		cfg = def
	}
	if profile != nil && profile.Research.ScrapeEnabled != nil {
		cfg.Enabled = *profile.Research.ScrapeEnabled
	}
	if !cfg.Enabled {
		logger.Info("web scraping disabled")
		return nil
	}
	return scraper.New(cfg, breakers)
}

func notifyChannels(logger *slog.Logger) []notify.Channel {
	var channels []notify.Channel

	discord, err := notifier.LoadDiscordConfig()
	if err != nil {
		logger.Warn("Discord notifications disabled", slog.Any("error", err))
	} else if discord.Enabled {
		channels = append(channels, notify.NewDiscordChannel(discord))
	}

	slack, err := notifier.LoadSlackConfig()
	if err != nil {
		logger.Warn("Slack notifications disabled", slog.Any("error", err))
	} else if slack.Enabled {
		channels = append(channels, notify.NewSlackChannel(slack))
	}

	logger.Info("notification channels configured", slog.Int("channels", len(channels)))
	return channels
}

// Close drains notifications and releases the cache and database.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.Notify != nil {
		if err := c.Notify.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("notify shutdown: %w", err))
		}
	}
	if closer, ok := c.Cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
