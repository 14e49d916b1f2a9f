package research

import (
	"context"
	"log/slog"

	"model-tracker/internal/observability/metrics"
)

type named interface {
	Name() string
}

// runChain calls each provider in order until one returns a non-empty
// result. Moving past a provider is recorded as a fallback.
func runChain[P named, T any](ctx context.Context, stage string, chain []P, call func(context.Context, P) (T, error), empty func(T) bool) (T, error) {
	var zero T
	lastErr := errNoProvider
	for i, p := range chain {
		v, err := call(ctx, p)
		if err == nil && !empty(v) {
			return v, nil
		}
		if err == nil {
			err = errEmptyResult
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if i < len(chain)-1 {
			metrics.RecordFallback(stage, p.Name())
			slog.WarnContext(ctx, "provider failed, falling back",
				slog.String("stage", stage),
				slog.String("provider", p.Name()),
				slog.String("fallback", chain[i+1].Name()),
				slog.Any("error", err))
		}
	}
	return zero, lastErr
}
