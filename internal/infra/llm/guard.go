package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"model-tracker/internal/observability/metrics"
	"model-tracker/internal/observability/tracing"
	"model-tracker/internal/resilience/circuitbreaker"
	"model-tracker/internal/resilience/retry"
)

var (
	// ErrEmptyResponse is returned when a provider answers without content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoJSON is returned when a response contains no JSON object.
	ErrNoJSON = errors.New("no JSON object in response")

	// ErrCircuitOpen is returned while the provider breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// base carries the resilience wiring shared by every provider client.
type base struct {
	name    string
	model   string
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	timeout time.Duration
}

func newBase(name string, s ProviderSettings, breakers *circuitbreaker.Registry) base {
	if breakers == nil {
		breakers = circuitbreaker.NewRegistry()
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return base{
		name:    name,
		model:   s.Model,
		breaker: breakers.Get(circuitbreaker.ProviderConfig(name)),
		retry:   retry.ProviderConfig(),
		timeout: timeout,
	}
}

// Name returns the provider name.
func (b *base) Name() string {
	return b.name
}

// guard runs fn with the provider timeout, retry and circuit breaker, and
// records the call in metrics and a trace span.
func guard[T any](ctx context.Context, b *base, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, span := tracing.StartSpan(ctx, "llm."+b.name+"."+op,
		attribute.String("llm.provider", b.name),
		attribute.String("llm.model", b.model))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	out, err := retry.Do(ctx, b.retry, func(ctx context.Context) (T, error) {
		res, err := b.breaker.Execute(func() (any, error) {
			return fn(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				slog.WarnContext(ctx, "provider circuit breaker open, request rejected",
					slog.String("provider", b.name),
					slog.String("state", b.breaker.State().String()))
				return zero, ErrCircuitOpen
			}
			return zero, classify(err)
		}
		return res.(T), nil
	})
	duration := time.Since(start)
	metrics.RecordProviderRequest(b.name, op, err == nil, duration)

	if err != nil {
		tracing.RecordError(span, err)
		slog.WarnContext(ctx, "provider call failed",
			slog.String("provider", b.name),
			slog.String("operation", op),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return zero, fmt.Errorf("%s %s: %w", b.name, op, err)
	}
	return out, nil
}

// classify maps SDK errors carrying an HTTP status onto retry.HTTPError so
// the retry policy can tell transient failures from permanent ones.
func classify(err error) error {
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return &retry.HTTPError{StatusCode: oaiErr.HTTPStatusCode, Message: oaiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: http.StatusText(reqErr.HTTPStatusCode), Err: err}
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return &retry.HTTPError{StatusCode: antErr.StatusCode, Message: http.StatusText(antErr.StatusCode), Err: err}
	}
	var genErr genai.APIError
	if errors.As(err, &genErr) {
		return &retry.HTTPError{StatusCode: genErr.Code, Message: genErr.Message, Err: err}
	}
	return err
}
