package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/resilience/circuitbreaker"
)

const (
	claudeDetailsMaxTokens = 2048
	claudeContentMaxTokens = 4096
)

// Claude is the fallback for details and content generation.
type Claude struct {
	base
	client      anthropic.Client
	temperature float32
}

// NewClaude creates a Claude client. The SDK's own retries are disabled;
// guard owns the retry policy.
func NewClaude(s ProviderSettings, breakers *circuitbreaker.Registry) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}
	return &Claude{
		base:        newBase(ProviderClaude, s, breakers),
		client:      anthropic.NewClient(opts...),
		temperature: s.Temperature,
	}
}

// Details researches one model.
func (c *Claude) Details(ctx context.Context, name, provider string) (*entity.ModelDetails, error) {
	content, err := c.message(ctx, "details", detailsSystemPrompt, detailsPrompt(name, provider), claudeDetailsMaxTokens)
	if err != nil {
		return nil, err
	}
	details, err := parseDetails(content)
	if err != nil {
		return nil, fmt.Errorf("claude details: %w", err)
	}
	return details, nil
}

// GenerateContent writes the long-form markdown article for a model.
func (c *Claude) GenerateContent(ctx context.Context, name, provider string, details *entity.ModelDetails, reference string) (string, error) {
	return c.message(ctx, "content", "You are a technical writer covering AI model releases.",
		contentPrompt(name, provider, details, reference), claudeContentMaxTokens)
}

func (c *Claude) message(ctx context.Context, op, system, prompt string, maxTokens int64) (string, error) {
	return guard(ctx, &c.base, op, func(ctx context.Context) (string, error) {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(float64(c.temperature)),
			System:      []anthropic.TextBlockParam{{Text: system}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return "", err
		}
		if len(message.Content) == 0 {
			return "", ErrEmptyResponse
		}
		textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
		if !ok || strings.TrimSpace(textBlock.Text) == "" {
			return "", ErrEmptyResponse
		}
		return textBlock.Text, nil
	})
}
