// Package config provides fail-open loaders for environment configuration.
//
// A loader never returns an error: an unset variable yields the default,
// and a value that fails to parse or validate also yields the default
// together with a warning. Callers log the warnings and record them in
// ConfigMetrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
type LoadResult[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the variable or the default when unset. No validation.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string, falling back to the default when the
// validator rejects it.
//
// Example:
//
//	r := LoadEnvWithFallback("CRON_SCHEDULE", "0 */4 * * *", ValidateCronSchedule)
//	schedule := r.Value
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a time.ParseDuration value ("90s", "30m").
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return load(envKey, defaultValue, strconv.Atoi, validator)
}

// LoadEnvBool loads a strconv.ParseBool value.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return load(envKey, defaultValue, strconv.ParseBool, nil)
}

func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(envKey, defaultValue, fmt.Sprintf("invalid format %q: %v", raw, err))
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, defaultValue, err.Error())
		}
	}

	return LoadResult[T]{Value: value}
}

func fallback[T any](envKey string, defaultValue T, reason string) LoadResult[T] {
	return LoadResult[T]{
		Value:           defaultValue,
		Warnings:        []string{fmt.Sprintf("%s: %s, using default %v", envKey, reason, defaultValue)},
		FallbackApplied: true,
	}
}
