package llm

import (
	"context"
	"fmt"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/resilience/circuitbreaker"
)

// Grok answers structured details requests through the xAI API.
type Grok struct {
	chat *chatClient
}

// NewGrok creates a Grok client.
func NewGrok(s ProviderSettings, breakers *circuitbreaker.Registry) *Grok {
	return &Grok{chat: newChatClient(ProviderGrok, s, breakers)}
}

// Name returns the provider name.
func (g *Grok) Name() string { return ProviderGrok }

// Details researches one model.
func (g *Grok) Details(ctx context.Context, name, provider string) (*entity.ModelDetails, error) {
	content, err := g.chat.complete(ctx, "details", detailsSystemPrompt, detailsPrompt(name, provider), g.chat.temperature)
	if err != nil {
		return nil, err
	}
	details, err := parseDetails(content)
	if err != nil {
		return nil, fmt.Errorf("grok details: %w", err)
	}
	return details, nil
}
