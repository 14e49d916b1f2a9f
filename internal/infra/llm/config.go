// Package llm implements the research providers behind model discovery and
// enrichment: Perplexity and Grok through their OpenAI-compatible APIs,
// Gemini through the Google GenAI SDK and Claude through the Anthropic SDK.
//
// Every call runs under a per-call timeout, exponential backoff retry and a
// per-provider circuit breaker, and is recorded in the provider metrics.
package llm

import (
	"net/http"
	"time"

	"model-tracker/internal/pkg/config"
	envconfig "model-tracker/pkg/config"
)

// Provider names used for breakers, metrics and logs.
const (
	ProviderPerplexity = "perplexity"
	ProviderGrok       = "grok"
	ProviderGemini     = "gemini"
	ProviderClaude     = "claude"
)

// ProviderSettings configures one provider client.
type ProviderSettings struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration

	// HTTPClient replaces the SDK default client when set.
	HTTPClient *http.Client
}

// Enabled reports whether the provider has credentials.
func (s ProviderSettings) Enabled() bool {
	return s.APIKey != ""
}

// Config holds the settings of every provider.
type Config struct {
	Perplexity ProviderSettings
	Grok       ProviderSettings
	Gemini     ProviderSettings
	Claude     ProviderSettings
}

// DefaultConfig returns the built-in models, endpoints and temperatures
// without API keys.
func DefaultConfig() Config {
	return Config{
		Perplexity: ProviderSettings{
			Model:       "sonar-pro",
			BaseURL:     "https://api.perplexity.ai",
			Temperature: 0.1,
			Timeout:     90 * time.Second,
		},
		Grok: ProviderSettings{
			Model:       "grok-2-latest",
			BaseURL:     "https://api.x.ai/v1",
			Temperature: 0.2,
			Timeout:     90 * time.Second,
		},
		Gemini: ProviderSettings{
			Model:       "gemini-2.0-flash",
			Temperature: 0.4,
			Timeout:     120 * time.Second,
		},
		Claude: ProviderSettings{
			Model:       "claude-sonnet-4-5-20250929",
			Temperature: 0.2,
			Timeout:     120 * time.Second,
		},
	}
}

// LoadConfig reads API keys from the environment and applies the
// per-provider overrides of the research profile.
//
// Environment variables:
//   - PERPLEXITY_API_KEY
//   - GROK_API_KEY
//   - GOOGLE_GEMINI_API_KEY
//   - ANTHROPIC_API_KEY
func LoadConfig(profile *config.Profile) Config {
	cfg := DefaultConfig()
	cfg.Perplexity.APIKey = envconfig.GetEnvString("PERPLEXITY_API_KEY", "")
	cfg.Grok.APIKey = envconfig.GetEnvString("GROK_API_KEY", "")
	cfg.Gemini.APIKey = envconfig.GetEnvString("GOOGLE_GEMINI_API_KEY", "")
	cfg.Claude.APIKey = envconfig.GetEnvString("ANTHROPIC_API_KEY", "")

	cfg.Perplexity = applyProfile(cfg.Perplexity, profile.Provider(ProviderPerplexity))
	cfg.Grok = applyProfile(cfg.Grok, profile.Provider(ProviderGrok))
	cfg.Gemini = applyProfile(cfg.Gemini, profile.Provider(ProviderGemini))
	cfg.Claude = applyProfile(cfg.Claude, profile.Provider(ProviderClaude))
	return cfg
}

func applyProfile(s ProviderSettings, p config.ProviderProfile) ProviderSettings {
	if p.Model != "" {
		s.Model = p.Model
	}
	if p.BaseURL != "" {
		s.BaseURL = p.BaseURL
	}
	if p.Temperature > 0 {
		s.Temperature = p.Temperature
	}
	if p.Timeout > 0 {
		s.Timeout = p.Timeout
	}
	return s
}
