package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"model-tracker/internal/observability/metrics"
	"model-tracker/internal/resilience/circuitbreaker"
	"model-tracker/internal/resilience/retry"
)

const userAgent = "ModelTrackerBot/1.0 (+https://github.com/model-tracker)"

// response is a fully read HTTP response.
type response struct {
	body     []byte
	finalURL *url.URL
}

// guardedClient performs HTTP calls through a breaker and retry policy and
// enforces the body size limit.
type guardedClient struct {
	name    string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	maxBody int64
}

func newGuardedClient(name string, client *http.Client, cfg Config, breakers *circuitbreaker.Registry) *guardedClient {
	if breakers == nil {
		breakers = circuitbreaker.NewRegistry()
	}
	return &guardedClient{
		name:    name,
		client:  client,
		breaker: breakers.Get(circuitbreaker.ScraperConfig(name)),
		retry:   retry.ScraperConfig(),
		maxBody: cfg.MaxBodySize,
	}
}

// newHTTPClient builds the client used for API calls.
func newHTTPClient(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
}

func (g *guardedClient) do(ctx context.Context, op string, build func(ctx context.Context) (*http.Request, error)) (*response, error) {
	start := time.Now()
	resp, err := retry.Do(ctx, g.retry, func(ctx context.Context) (*response, error) {
		out, err := g.breaker.Execute(func() (any, error) {
			return g.once(ctx, build)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%s unavailable: circuit breaker open", g.name)
			}
			return nil, err
		}
		return out.(*response), nil
	})
	metrics.RecordProviderRequest(g.name, op, err == nil, time.Since(start))
	if err != nil {
		slog.WarnContext(ctx, "scraper request failed",
			slog.String("scraper", g.name),
			slog.String("operation", op),
			slog.Any("error", err))
		return nil, err
	}
	return resp, nil
}

func (g *guardedClient) once(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*response, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > g.maxBody {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, g.maxBody)
	}

	out := &response{body: body, finalURL: req.URL}
	if resp.Request != nil && resp.Request.URL != nil {
		out.finalURL = resp.Request.URL
	}
	return out, nil
}
