package cache

import (
	"context"
	"errors"
	"time"

	"model-tracker/internal/domain/entity"
)

// ErrNotConfigured is returned by Noop.Ping.
var ErrNotConfigured = errors.New("cache not configured")

// Noop is the cache used without Redis. Every lookup misses and every write
// is dropped.
type Noop struct{}

// NewNoop creates a Noop cache.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) GetModels(context.Context) ([]*entity.Model, bool)      { return nil, false }
func (*Noop) SetModels(context.Context, []*entity.Model)             {}
func (*Noop) GetModel(context.Context, string) (*entity.Model, bool) { return nil, false }
func (*Noop) SetModel(context.Context, string, *entity.Model)        {}
func (*Noop) GetTimeline(context.Context) ([]*entity.Model, bool)    { return nil, false }
func (*Noop) SetTimeline(context.Context, []*entity.Model)           {}
func (*Noop) Invalidate(context.Context)                             {}
func (*Noop) SetLastFetchTime(context.Context, time.Time)            {}
func (*Noop) GetLastFetchTime(context.Context) (time.Time, bool)     { return time.Time{}, false }

// Ping always fails so health checks report the cache as not configured.
func (*Noop) Ping(context.Context) error { return ErrNotConfigured }
