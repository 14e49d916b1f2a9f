// Package notifier posts new model releases to chat webhooks.
//
// Discord and Slack share one webhook sender that applies rate limiting and
// retries; each notifier only builds its own payload.
package notifier

import (
	"context"

	"model-tracker/internal/domain/entity"
)

// Notifier announces a newly stored model release.
// Implementations rate-limit and retry internally and respect ctx.
type Notifier interface {
	NotifyModel(ctx context.Context, model *entity.Model) error
}
