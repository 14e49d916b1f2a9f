package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/observability/metrics"
)

const invalidateBatchSize = 100

// Redis stores JSON-encoded models in Redis. Backend errors are logged and
// reported as misses.
type Redis struct {
	client    redis.UniversalClient
	opTimeout time.Duration
	logger    *slog.Logger
}

// NewRedis wraps an existing client. opTimeout <= 0 disables the
// per-operation timeout.
func NewRedis(client redis.UniversalClient, opTimeout time.Duration) *Redis {
	return &Redis{
		client:    client,
		opTimeout: opTimeout,
		logger:    slog.Default().With(slog.String("component", "cache")),
	}
}

func (r *Redis) GetModels(ctx context.Context) ([]*entity.Model, bool) {
	var models []*entity.Model
	ok := r.get(ctx, "get_models", KeyLatestModels, &models)
	return models, ok
}

func (r *Redis) SetModels(ctx context.Context, models []*entity.Model) {
	r.set(ctx, "set_models", KeyLatestModels, models, TTLLatestModels)
}

func (r *Redis) GetModel(ctx context.Context, slug string) (*entity.Model, bool) {
	var model entity.Model
	if !r.get(ctx, "get_model", ModelKey(slug), &model) {
		return nil, false
	}
	return &model, true
}

func (r *Redis) SetModel(ctx context.Context, slug string, model *entity.Model) {
	r.set(ctx, "set_model", ModelKey(slug), model, TTLModelDetail)
}

func (r *Redis) GetTimeline(ctx context.Context) ([]*entity.Model, bool) {
	var models []*entity.Model
	ok := r.get(ctx, "get_timeline", KeyTimeline, &models)
	return models, ok
}

func (r *Redis) SetTimeline(ctx context.Context, models []*entity.Model) {
	r.set(ctx, "set_timeline", KeyTimeline, models, TTLTimeline)
}

// Invalidate deletes every model:* key found by SCAN, then the latest
// models and timeline keys.
func (r *Redis) Invalidate(ctx context.Context) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	batch := make([]string, 0, invalidateBatchSize)
	deleted := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return err
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	iter := r.client.Scan(ctx, 0, modelKeyPrefix+"*", invalidateBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == invalidateBatchSize {
			if err := flush(); err != nil {
				r.fail(ctx, "invalidate", err)
				return
			}
		}
	}
	if err := iter.Err(); err != nil {
		r.fail(ctx, "invalidate", err)
		return
	}
	batch = append(batch, KeyLatestModels, KeyTimeline)
	if err := flush(); err != nil {
		r.fail(ctx, "invalidate", err)
		return
	}

	metrics.RecordCacheOperation("invalidate", "ok")
	r.logger.DebugContext(ctx, "cache invalidated", slog.Int("keys", deleted))
}

func (r *Redis) SetLastFetchTime(ctx context.Context, t time.Time) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Set(ctx, KeyLastFetchTime, t.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		r.fail(ctx, "set_last_fetch", err)
		return
	}
	metrics.RecordCacheOperation("set_last_fetch", "ok")
}

func (r *Redis) GetLastFetchTime(ctx context.Context) (time.Time, bool) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, KeyLastFetchTime).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheOperation("get_last_fetch", "miss")
		return time.Time{}, false
	}
	if err != nil {
		r.fail(ctx, "get_last_fetch", err)
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		r.fail(ctx, "get_last_fetch", err)
		return time.Time{}, false
	}
	metrics.RecordCacheOperation("get_last_fetch", "hit")
	return t, true
}

func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, op, key string, dst any) bool {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheOperation(op, "miss")
		return false
	}
	if err != nil {
		r.fail(ctx, op, err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.fail(ctx, op, err)
		return false
	}
	metrics.RecordCacheOperation(op, "hit")
	return true
}

func (r *Redis) set(ctx context.Context, op, key string, v any, ttl time.Duration) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := json.Marshal(v)
	if err != nil {
		r.fail(ctx, op, err)
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.fail(ctx, op, err)
		return
	}
	metrics.RecordCacheOperation(op, "ok")
}

func (r *Redis) fail(ctx context.Context, op string, err error) {
	metrics.RecordCacheOperation(op, "error")
	r.logger.WarnContext(ctx, "cache operation failed",
		slog.String("operation", op),
		slog.Any("error", err))
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}
