// Package notify dispatches new model release announcements to the
// configured chat channels in the background, with a worker pool and a
// circuit breaker per channel.
package notify

import (
	"context"

	"model-tracker/internal/domain/entity"
	"model-tracker/internal/infra/notifier"
)

// Channel is one notification destination. Implementations must be safe
// for concurrent use and respect ctx.
type Channel interface {
	// Name is the lowercase channel identifier used in logs and metrics.
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, model *entity.Model) error
}

// NotifierChannel adapts a notifier.Notifier to Channel.
type NotifierChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewNotifierChannel wraps n. A disabled channel never calls n.
func NewNotifierChannel(name string, n notifier.Notifier, enabled bool) *NotifierChannel {
	if !enabled || n == nil {
		n = notifier.NewNoOpNotifier()
	}
	return &NotifierChannel{name: name, notifier: n, enabled: enabled}
}

// NewDiscordChannel creates the Discord channel.
func NewDiscordChannel(cfg notifier.DiscordConfig) *NotifierChannel {
	var n notifier.Notifier
	if cfg.Enabled {
		n = notifier.NewDiscordNotifier(cfg)
	}
	return NewNotifierChannel("discord", n, cfg.Enabled)
}

// NewSlackChannel creates the Slack channel.
func NewSlackChannel(cfg notifier.SlackConfig) *NotifierChannel {
	var n notifier.Notifier
	if cfg.Enabled {
		n = notifier.NewSlackNotifier(cfg)
	}
	return NewNotifierChannel("slack", n, cfg.Enabled)
}

func (c *NotifierChannel) Name() string { return c.name }

func (c *NotifierChannel) IsEnabled() bool { return c.enabled }

// Send validates the model and forwards it to the notifier.
func (c *NotifierChannel) Send(ctx context.Context, model *entity.Model) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if model == nil || model.Name == "" {
		return ErrInvalidModel
	}
	return c.notifier.NotifyModel(ctx, model)
}
