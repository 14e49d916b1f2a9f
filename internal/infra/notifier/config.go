package notifier

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	envconfig "model-tracker/pkg/config"
)

const defaultWebhookTimeout = 30 * time.Second

// LoadDiscordConfig reads DISCORD_ENABLED, DISCORD_WEBHOOK_URL and
// NOTIFY_TIMEOUT. An enabled channel with an invalid webhook URL is
// returned disabled together with the reason.
func LoadDiscordConfig() (DiscordConfig, error) {
	if !envconfig.GetEnvBool("DISCORD_ENABLED", false) {
		return DiscordConfig{}, nil
	}
	webhookURL := envconfig.GetEnvString("DISCORD_WEBHOOK_URL", "")
	if err := validateWebhookURL(webhookURL, "discord.com", "/api/webhooks/"); err != nil {
		return DiscordConfig{}, fmt.Errorf("discord: %w", err)
	}
	return DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    envconfig.GetEnvDuration("NOTIFY_TIMEOUT", defaultWebhookTimeout),
	}, nil
}

// LoadSlackConfig reads SLACK_ENABLED, SLACK_WEBHOOK_URL and
// NOTIFY_TIMEOUT, with the same fallback as LoadDiscordConfig.
func LoadSlackConfig() (SlackConfig, error) {
	if !envconfig.GetEnvBool("SLACK_ENABLED", false) {
		return SlackConfig{}, nil
	}
	webhookURL := envconfig.GetEnvString("SLACK_WEBHOOK_URL", "")
	if err := validateWebhookURL(webhookURL, "hooks.slack.com", "/services/"); err != nil {
		return SlackConfig{}, fmt.Errorf("slack: %w", err)
	}
	return SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    envconfig.GetEnvDuration("NOTIFY_TIMEOUT", defaultWebhookTimeout),
	}, nil
}

func validateWebhookURL(raw, host, pathPrefix string) error {
	if raw == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https")
	}
	if u.Host != host {
		return fmt.Errorf("webhook host must be %s, got %s", host, u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("webhook path must start with %s", pathPrefix)
	}
	return nil
}
