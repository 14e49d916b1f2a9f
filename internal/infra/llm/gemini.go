package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/resilience/circuitbreaker"
)

// Gemini is the primary provider for social lookups and content generation.
// Social lookups are grounded with Google Search.
type Gemini struct {
	base
	client      *genai.Client
	temperature float32
}

// NewGemini creates a Gemini client for the Gemini API backend.
func NewGemini(ctx context.Context, s ProviderSettings, breakers *circuitbreaker.Registry) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	if s.HTTPClient != nil {
		cc.HTTPClient = s.HTTPClient
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		base:        newBase(ProviderGemini, s, breakers),
		client:      client,
		temperature: s.Temperature,
	}, nil
}

// SocialPosts returns posts mentioning the model.
func (g *Gemini) SocialPosts(ctx context.Context, name, provider string) ([]entity.SocialPost, error) {
	content, err := g.generate(ctx, "social", socialPostsPrompt(name, provider), true)
	if err != nil {
		return nil, err
	}
	posts, err := parseSocialPosts(content)
	if err != nil {
		return nil, fmt.Errorf("gemini social: %w", err)
	}
	return posts, nil
}

// GenerateContent writes the long-form markdown article for a model.
func (g *Gemini) GenerateContent(ctx context.Context, name, provider string, details *entity.ModelDetails, reference string) (string, error) {
	return g.generate(ctx, "content", contentPrompt(name, provider, details, reference), false)
}

func (g *Gemini) generate(ctx context.Context, op, prompt string, grounded bool) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return guard(ctx, &g.base, op, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			return "", err
		}
		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}
