// Package model provides the read side of tracked model releases: the
// paginated listing, lookup by slug and the last discovery time, each
// served through the model cache when possible.
package model

import "errors"

// Sentinel errors for model query operations.
var (
	// ErrModelNotFound indicates that no model has the requested slug.
	ErrModelNotFound = errors.New("model not found")

	// ErrInvalidSlug indicates an empty or malformed slug.
	ErrInvalidSlug = errors.New("invalid model slug")
)
