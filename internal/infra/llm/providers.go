package llm

import (
	"context"
	"log/slog"

	"model-tracker/internal/resilience/circuitbreaker"
)

// Set holds the providers that have credentials. Absent providers are nil
// and the research chains skip them.
type Set struct {
	Perplexity *Perplexity
	Grok       *Grok
	Gemini     *Gemini
	Claude     *Claude
}

// NewSet constructs every provider whose API key is configured.
func NewSet(ctx context.Context, cfg Config, breakers *circuitbreaker.Registry) (*Set, error) {
	set := &Set{}
	if cfg.Perplexity.Enabled() {
		set.Perplexity = NewPerplexity(cfg.Perplexity, breakers)
	}
	if cfg.Grok.Enabled() {
		set.Grok = NewGrok(cfg.Grok, breakers)
	}
	if cfg.Gemini.Enabled() {
		g, err := NewGemini(ctx, cfg.Gemini, breakers)
		if err != nil {
			return nil, err
		}
		set.Gemini = g
	}
	if cfg.Claude.Enabled() {
		set.Claude = NewClaude(cfg.Claude, breakers)
	}

	slog.Info("research providers configured",
		slog.Bool("perplexity", set.Perplexity != nil),
		slog.Bool("grok", set.Grok != nil),
		slog.Bool("gemini", set.Gemini != nil),
		slog.Bool("claude", set.Claude != nil))
	return set, nil
}
