package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"model-tracker/internal/pkg/config"
)

// WorkerConfig controls the scheduled model fetch.
//
// Environment variables:
//   - CRON_SCHEDULE: five-field cron expression (default "0 */4 * * *")
//   - WORKER_TIMEZONE: IANA zone the schedule is evaluated in (default "UTC")
//   - FETCH_JOB_TIMEOUT: upper bound for one run, 1m-2h (default 15m)
//   - WORKER_HEALTH_PORT: 1024-65535 (default 9091)
//   - WORKER_RUN_ON_START: run one fetch immediately after startup (default false)
type WorkerConfig struct {
	CronSchedule string
	Timezone     string
	JobTimeout   time.Duration
	HealthPort   int
	RunOnStart   bool
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 */4 * * *",
		Timezone:     "UTC",
		JobTimeout:   15 * time.Minute,
		HealthPort:   9091,
	}
}

// Location resolves Timezone, defaulting to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, time.Minute, 2*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfigFromEnv never fails: a rejected value is replaced by its default,
// logged as a warning and counted in the config metrics.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	var fallbacks []string

	warn := func(field string, warnings []string) {
		fallbacks = append(fallbacks, field)
		for _, w := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	schedule := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	if schedule.FallbackApplied {
		warn("cron_schedule", schedule.Warnings)
	}

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	if tz.FallbackApplied {
		warn("timezone", tz.Warnings)
	}

	timeout := config.LoadEnvDuration("FETCH_JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 2*time.Hour)
	})
	cfg.JobTimeout = timeout.Value
	if timeout.FallbackApplied {
		warn("job_timeout", timeout.Warnings)
	}

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	if port.FallbackApplied {
		warn("health_port", port.Warnings)
	}

	runOnStart := config.LoadEnvBool("WORKER_RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = runOnStart.Value
	if runOnStart.FallbackApplied {
		warn("run_on_start", runOnStart.Warnings)
	}

	if metrics != nil {
		metrics.Config.Record(fallbacks)
	}
	return &cfg
}
