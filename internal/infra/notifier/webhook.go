package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	defaultMaxAttempts = 2
	defaultBaseDelay   = 5 * time.Second
	defaultRetryAfter  = 5 * time.Second
	maxErrorBodyBytes  = 4096
)

// webhookSender posts JSON payloads to one webhook URL.
type webhookSender struct {
	name        string
	url         string
	client      *http.Client
	limiter     *RateLimiter
	maxAttempts int
	baseDelay   time.Duration
}

func newWebhookSender(name, url string, timeout time.Duration, limiter *RateLimiter) *webhookSender {
	return &webhookSender{
		name:        name,
		url:         url,
		client:      &http.Client{Timeout: timeout},
		limiter:     limiter,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// send waits for the rate limiter, then posts payload with retries. A 429
// sleeps for the advertised retry-after, 5xx and network errors back off
// linearly, other 4xx fail at once.
func (s *webhookSender) send(ctx context.Context, slug string, payload any) error {
	logger := slog.Default().With(
		slog.String("request_id", uuid.New().String()),
		slog.String("channel", s.name),
		slog.String("model", slug))

	waited, err := s.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if waited > time.Second {
		logger.DebugContext(ctx, "webhook rate limited", slog.Duration("waited", waited))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = s.post(ctx, body)
		if lastErr == nil {
			logger.InfoContext(ctx, "webhook notification sent", slog.Int("attempt", attempt))
			return nil
		}

		var delay time.Duration
		var rl *RateLimitError
		if errors.As(lastErr, &rl) {
			delay = rl.RetryAfter
			logger.WarnContext(ctx, "webhook rate limit hit",
				slog.Duration("retry_after", delay),
				slog.Int("attempt", attempt))
		} else if !isRetryableError(lastErr) {
			logger.ErrorContext(ctx, "webhook notification rejected",
				slog.Any("error", lastErr),
				slog.Int("attempt", attempt))
			return lastErr
		} else {
			delay = s.baseDelay * time.Duration(attempt)
			logger.WarnContext(ctx, "webhook notification failed",
				slog.Any("error", lastErr),
				slog.Int("attempt", attempt))
		}
		if attempt == s.maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s notification canceled during backoff: %w", s.name, ctx.Err())
		}
	}
	return fmt.Errorf("%s notification failed after %d attempts: %w", s.name, s.maxAttempts, lastErr)
}

func (s *webhookSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    s.name + " rate limit exceeded",
			RetryAfter: retryAfter(resp, respBody),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s webhook client error %d: %s", s.name, resp.StatusCode, respBody),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s webhook server error %d: %s", s.name, resp.StatusCode, respBody),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, respBody)
}

// retryAfter reads retry_after (seconds, Discord's JSON body) or the
// Retry-After header, defaulting to 5s.
func retryAfter(resp *http.Response, body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}

// truncate shortens s to at most max runes, ending with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
