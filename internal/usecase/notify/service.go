package notify

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/handler/http/requestid"
	"model-tracker/internal/resilience/circuitbreaker"
)

const (
	defaultWorkerPoolTimeout   = 5 * time.Second
	defaultNotificationTimeout = 30 * time.Second
)

// Service announces new releases on every enabled channel.
type Service interface {
	// NotifyNewModel returns immediately; sends run in background
	// goroutines and failures are only logged.
	NotifyNewModel(ctx context.Context, model *entity.Model)

	// ChannelHealth reports each channel and its breaker state.
	ChannelHealth() []ChannelHealthStatus

	// Shutdown cancels in-flight sends and waits for them until ctx ends.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus is the health of one channel.
type ChannelHealthStatus struct {
	Name         string `json:"name"`
	Enabled      bool   `json:"enabled"`
	CircuitState string `json:"circuitState"`
}

// Options tunes the dispatcher. Zero values use the defaults.
type Options struct {
	// MaxConcurrent bounds concurrent sends across channels (default 10).
	MaxConcurrent int

	// PoolTimeout is how long a send waits for a worker slot before the
	// notification is dropped (default 5s).
	PoolTimeout time.Duration

	// SendTimeout bounds a single channel send (default 30s).
	SendTimeout time.Duration

	// Breakers registers one breaker per channel; nil uses a private registry.
	Breakers *circuitbreaker.Registry
}

type service struct {
	channels       []Channel
	breakers       map[string]*circuitbreaker.CircuitBreaker
	workerPool     chan struct{}
	poolTimeout    time.Duration
	sendTimeout    time.Duration
	wg             sync.WaitGroup
	mu             sync.Mutex // guards closed and wg.Add against Shutdown
	closed         bool
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewService creates the dispatcher for channels.
func NewService(channels []Channel, opts Options) Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	if opts.PoolTimeout <= 0 {
		opts.PoolTimeout = defaultWorkerPoolTimeout
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultNotificationTimeout
	}
	if opts.Breakers == nil {
		opts.Breakers = circuitbreaker.NewRegistry()
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	s := &service{
		channels:       channels,
		breakers:       make(map[string]*circuitbreaker.CircuitBreaker, len(channels)),
		workerPool:     make(chan struct{}, opts.MaxConcurrent),
		poolTimeout:    opts.PoolTimeout,
		sendTimeout:    opts.SendTimeout,
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	enabled := 0
	for _, ch := range channels {
		s.breakers[ch.Name()] = opts.Breakers.Get(circuitbreaker.NotifyConfig(ch.Name()))
		if ch.IsEnabled() {
			enabled++
		}
	}
	channelsEnabled.Set(float64(enabled))
	return s
}

func (s *service) NotifyNewModel(ctx context.Context, model *entity.Model) {
	if model == nil {
		slog.WarnContext(ctx, "notification skipped: nil model")
		return
	}
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		notificationDispatchedTotal.WithLabelValues(ch.Name()).Inc()
		s.wg.Add(1)
		go s.notifyChannel(reqID, ch, model)
	}
}

func (s *service) notifyChannel(reqID string, ch Channel, model *entity.Model) {
	defer s.wg.Done()
	activeNotifications.Inc()
	defer activeNotifications.Dec()

	logger := slog.Default().With(
		slog.String("request_id", reqID),
		slog.String("channel", ch.Name()),
		slog.String("model", model.Slug))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	timer := time.NewTimer(s.poolTimeout)
	select {
	case s.workerPool <- struct{}{}:
		timer.Stop()
		defer func() { <-s.workerPool }()
	case <-timer.C:
		logger.Warn("notification dropped: worker pool full")
		recordDropped(ch.Name(), "pool_full")
		return
	case <-s.shutdownCtx.Done():
		timer.Stop()
		recordDropped(ch.Name(), "shutdown")
		return
	}

	ctx, cancel := context.WithTimeout(s.shutdownCtx, s.sendTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, reqID)

	start := time.Now()
	_, err := s.breakers[ch.Name()].Execute(func() (any, error) {
		return nil, ch.Send(ctx, model)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logger.Warn("notification dropped: channel circuit open")
		recordDropped(ch.Name(), "circuit_open")
		return
	}

	duration := time.Since(start)
	recordResult(ch.Name(), err, duration)
	if err != nil {
		logger.Warn("channel notification failed",
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return
	}
	logger.Info("channel notification sent",
		slog.String("name", model.Name),
		slog.Duration("send_duration", duration))
}

func (s *service) ChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		statuses = append(statuses, ChannelHealthStatus{
			Name:         ch.Name(),
			Enabled:      ch.IsEnabled(),
			CircuitState: s.breakers[ch.Name()].State().String(),
		})
	}
	return statuses
}

func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("shutting down notification service")
	s.mu.Lock()
	s.closed = true
	s.shutdownCancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("notification service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("notification service shutdown timeout")
		return ctx.Err()
	}
}
