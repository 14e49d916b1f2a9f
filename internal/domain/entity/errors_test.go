package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{"slug required", "slug", "slug is required", "validation error on field 'slug': slug is required"},
		{"bad link", "paperUrl", "URL must use http or https scheme", "validation error on field 'paperUrl': URL must use http or https scheme"},
		{"empty field name", "", "x", "validation error on field '': x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_InErrorChain(t *testing.T) {
	base := &ValidationError{Field: "provider", Message: "provider is required"}
	wrapped := fmt.Errorf("create model: %w", errors.Join(ErrInvalidInput, base))

	var vErr *ValidationError
	assert.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, "provider", vErr.Field)
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrDuplicateSlug}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}
