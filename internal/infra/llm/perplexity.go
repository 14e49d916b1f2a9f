package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/resilience/circuitbreaker"
)

// Perplexity runs discovery passes and social lookups against the
// search-grounded sonar models.
type Perplexity struct {
	chat *chatClient
}

// NewPerplexity creates a Perplexity client.
func NewPerplexity(s ProviderSettings, breakers *circuitbreaker.Registry) *Perplexity {
	return &Perplexity{chat: newChatClient(ProviderPerplexity, s, breakers)}
}

// Name returns the provider name.
func (p *Perplexity) Name() string { return ProviderPerplexity }

// DiscoverLatest asks for releases from today or the past 24 hours.
func (p *Perplexity) DiscoverLatest(ctx context.Context, today time.Time) ([]entity.DiscoveredModel, error) {
	return p.discover(ctx, latestDiscoveryPrompt(today))
}

// DiscoverWindow asks for releases inside w.
func (p *Perplexity) DiscoverWindow(ctx context.Context, w entity.DateWindow) ([]entity.DiscoveredModel, error) {
	return p.discover(ctx, windowDiscoveryPrompt(w))
}

func (p *Perplexity) discover(ctx context.Context, userPrompt string) ([]entity.DiscoveredModel, error) {
	content, err := p.chat.complete(ctx, "discover", discoverySystemPrompt, userPrompt, p.chat.temperature)
	if errors.Is(err, ErrEmptyResponse) {
		return []entity.DiscoveredModel{}, nil
	}
	if err != nil {
		return nil, err
	}
	models, err := parseDiscovered(content)
	if err != nil {
		return nil, fmt.Errorf("perplexity discover: %w", err)
	}
	slog.InfoContext(ctx, "discovery pass completed",
		slog.String("provider", ProviderPerplexity),
		slog.Int("discovered", len(models)))
	return models, nil
}

// SocialPosts returns posts mentioning the model.
func (p *Perplexity) SocialPosts(ctx context.Context, name, provider string) ([]entity.SocialPost, error) {
	content, err := p.chat.complete(ctx, "social", "You find social media discussion about AI models and answer with JSON only.",
		socialPostsPrompt(name, provider), p.chat.temperature)
	if err != nil {
		return nil, err
	}
	posts, err := parseSocialPosts(content)
	if err != nil {
		return nil, fmt.Errorf("perplexity social: %w", err)
	}
	return posts, nil
}
