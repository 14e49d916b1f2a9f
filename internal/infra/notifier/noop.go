package notifier

import (
	"context"

	"model-tracker/internal/domain/entity"
)

// NoOpNotifier is used when a channel is disabled.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyModel does nothing.
func (n *NoOpNotifier) NotifyModel(context.Context, *entity.Model) error {
	return nil
}
