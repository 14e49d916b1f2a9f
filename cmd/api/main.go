package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-tracker/internal/app"
	hhttp "model-tracker/internal/handler/http"
	hcron "model-tracker/internal/handler/http/cron"
	hmodel "model-tracker/internal/handler/http/model"
	"model-tracker/internal/handler/http/requestid"
	"model-tracker/internal/observability/tracing"
	"model-tracker/pkg/config"
)

func main() {
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.New(ctx, logger, app.Options{
		Migrate: config.GetEnvBool("MIGRATE_ON_START", true),
		Notify:  true,
	})
	if err != nil {
		logger.Error("failed to initialise components", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := components.Close(closeCtx); err != nil {
			logger.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := applyMiddleware(logger, setupRoutes(logger, components, version))

	runServer(ctx, logger, handler, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// setupRoutes registers the public API, the cron endpoints and the probes.
func setupRoutes(logger *slog.Logger, c *app.Components, version string) *http.ServeMux {
	mux := http.NewServeMux()

	health := &hhttp.HealthHandler{DB: c.DB, Breakers: c.Breakers, Version: version}
	if c.CacheOn {
		health.Cache = c.Cache
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: c.DB})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hmodel.Register(mux, c.ModelQuery, c.Pagination, logger)

	auth := hcron.Auth{
		Secret:     config.GetEnvString("CRON_SECRET", ""),
		Production: config.GetEnvString("APP_ENV", "") == "production",
	}
	if auth.Secret == "" {
		logger.Warn("CRON_SECRET is not set, manual cron and backfill calls are rejected")
	}
	hcron.Register(mux, c.Ingest, c.Ingest, auth,
		config.GetEnvDuration("CRON_JOB_TIMEOUT", hcron.DefaultJobTimeout))

	return mux
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: Request ID → Tracing → Rate Limit → Recovery → Logging → Body Limit → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	limiter := hhttp.NewRateLimiter(
		config.GetEnvInt("RATE_LIMIT_REQUESTS", hhttp.DefaultRateLimit),
		config.GetEnvDuration("RATE_LIMIT_WINDOW", hhttp.DefaultRateLimitWindow),
	)

	h := handler
	h = hhttp.MetricsMiddleware(h)
	h = hhttp.LimitRequestBody(hhttp.DefaultMaxBodyBytes)(h)
	h = hhttp.Logging(logger)(h)
	h = hhttp.Recover(logger)(h)
	h = limiter.Limit(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
// WriteTimeout is generous because a backfill request runs for minutes.
func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, version string) {
	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Minute),
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		return
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
