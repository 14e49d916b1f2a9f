// Package cache implements repository.ModelCache on Redis, with a no-op
// fallback used when no Redis URL is configured.
package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"model-tracker/internal/repository"
	envconfig "model-tracker/pkg/config"
)

// Cache keys.
const (
	KeyLatestModels  = "latest_models"
	KeyTimeline      = "timeline"
	KeyLastFetchTime = "last_fetch_time"
	modelKeyPrefix   = "model:"
)

// Cache TTLs. The last fetch time never expires.
const (
	TTLLatestModels = 5 * time.Minute
	TTLModelDetail  = 15 * time.Minute
	TTLTimeline     = 2 * time.Minute
)

// ModelKey returns the key of a cached model detail.
func ModelKey(slug string) string {
	return modelKeyPrefix + slug
}

// Config holds the Redis connection settings.
type Config struct {
	// URL is a redis:// or rediss:// URL. Empty disables caching.
	URL string

	// OpTimeout bounds every cache operation.
	OpTimeout time.Duration
}

// Enabled reports whether a Redis URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// LoadConfigFromEnv reads REDIS_URL and CACHE_OP_TIMEOUT (default 500ms).
func LoadConfigFromEnv() Config {
	return Config{
		URL:       envconfig.GetEnvString("REDIS_URL", ""),
		OpTimeout: envconfig.GetEnvDuration("CACHE_OP_TIMEOUT", 500*time.Millisecond),
	}
}

// New returns a Redis cache when cfg has a URL and a Noop cache otherwise.
func New(cfg Config) (repository.ModelCache, error) {
	if !cfg.Enabled() {
		return NewNoop(), nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return NewRedis(redis.NewClient(opts), cfg.OpTimeout), nil
}
