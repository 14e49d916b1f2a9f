// Package scraper gathers supporting material for model research: official
// announcement pages, Jina Reader documentation dumps and Tavily web search
// results mined for benchmark scores and competitor comparisons.
package scraper

import (
	"fmt"
	"time"

	envconfig "model-tracker/pkg/config"
)

// Config controls the outbound fetches made during research.
type Config struct {
	// Enabled turns all scraping off when false; research then relies on
	// the LLM providers alone.
	Enabled bool

	JinaAPIKey   string
	TavilyAPIKey string

	// Endpoints, overridable for tests.
	JinaBaseURL   string
	TavilyBaseURL string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxBodySize rejects larger responses while reading.
	MaxBodySize int64

	// MaxRedirects bounds redirect chains; each hop is SSRF-checked.
	MaxRedirects int

	// DenyPrivateIPs rejects page URLs resolving to loopback, private or
	// link-local addresses.
	DenyPrivateIPs bool

	// MaxExcerptChars truncates page text passed to content generation.
	MaxExcerptChars int
}

// DefaultConfig returns production defaults without API keys.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		JinaBaseURL:     "https://r.jina.ai/",
		TavilyBaseURL:   "https://api.tavily.com",
		Timeout:         20 * time.Second,
		MaxBodySize:     5 * 1024 * 1024,
		MaxRedirects:    5,
		DenyPrivateIPs:  true,
		MaxExcerptChars: 6000,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxBodySize < 1024 || c.MaxBodySize > 100*1024*1024 {
		return fmt.Errorf("max body size must be between 1KB and 100MB, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	if c.MaxExcerptChars < 0 {
		return fmt.Errorf("max excerpt chars cannot be negative, got %d", c.MaxExcerptChars)
	}
	return nil
}

// LoadConfigFromEnv reads the scraper configuration.
//
// Environment variables:
//   - SCRAPE_ENABLED (default true)
//   - JINA_API_KEY, TAVILY_API_KEY
//   - SCRAPE_TIMEOUT (default 20s)
//   - SCRAPE_MAX_BODY_SIZE (bytes, default 5MB)
//   - SCRAPE_MAX_REDIRECTS (default 5)
//   - SCRAPE_DENY_PRIVATE_IPS (default true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Enabled = envconfig.GetEnvBool("SCRAPE_ENABLED", cfg.Enabled)
	cfg.JinaAPIKey = envconfig.GetEnvString("JINA_API_KEY", "")
	cfg.TavilyAPIKey = envconfig.GetEnvString("TAVILY_API_KEY", "")
	cfg.Timeout = envconfig.GetEnvDuration("SCRAPE_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(envconfig.GetEnvInt("SCRAPE_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = envconfig.GetEnvInt("SCRAPE_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = envconfig.GetEnvBool("SCRAPE_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
