// Package pagination parses and bounds the limit/offset parameters of list
// endpoints.
package pagination

import "model-tracker/pkg/config"

// Config holds pagination configuration settings.
type Config struct {
	DefaultLimit int // Items returned when no limit is given (50)
	MaxLimit     int // Largest accepted limit (100)
}

// DefaultConfig returns the default pagination configuration.
// Default values: limit=50, max=100
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 50,
		MaxLimit:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_LIMIT: Default items per request
//   - PAGINATION_MAX_LIMIT: Maximum items per request
func LoadFromEnv() Config {
	d := DefaultConfig()
	return Config{
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", d.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", d.MaxLimit),
	}
}
