package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"model-tracker/internal/resilience/circuitbreaker"
)

// chatClient talks to an OpenAI-compatible chat completions endpoint.
type chatClient struct {
	base
	client      *openai.Client
	temperature float32
}

func newChatClient(name string, s ProviderSettings, breakers *circuitbreaker.Registry) *chatClient {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.HTTPClient != nil {
		cfg.HTTPClient = s.HTTPClient
	}
	return &chatClient{
		base:        newBase(name, s, breakers),
		client:      openai.NewClientWithConfig(cfg),
		temperature: s.Temperature,
	}
}

func (c *chatClient) complete(ctx context.Context, op, system, user string, temperature float32) (string, error) {
	return guard(ctx, &c.base, op, func(ctx context.Context) (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			Temperature: temperature,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
}
