package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"model-tracker/internal/domain/entity"
)

// DiscordConfig configures the Discord webhook notifier.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts releases as Discord embeds.
type DiscordNotifier struct {
	sender *webhookSender
}

// NewDiscordNotifier creates a Discord notifier paced at 0.5 req/s with a
// burst of 3 (Discord allows 30 webhook calls per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		sender: newWebhookSender("discord", config.WebhookURL, config.Timeout, NewRateLimiter(0.5, 3)),
	}
}

// DiscordWebhookPayload is the body of a Discord webhook call.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one Discord embed.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Thumbnail   *DiscordEmbedImage  `json:"thumbnail,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp"`
}

// DiscordEmbedField is an inline name/value pair.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordEmbedImage references an image by URL.
type DiscordEmbedImage struct {
	URL string `json:"url"`
}

// DiscordEmbedFooter is the embed footer.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	discordMaxTitle       = 256
	discordMaxDescription = 4096
	discordMaxFieldValue  = 1024

	// #5865F2
	discordBlurple = 5793266
)

func buildDiscordPayload(m *entity.Model) DiscordWebhookPayload {
	fields := []DiscordEmbedField{{Name: "Provider", Value: truncate(m.Provider, discordMaxFieldValue), Inline: true}}
	if m.ModelType != "" {
		fields = append(fields, DiscordEmbedField{Name: "Type", Value: m.ModelType, Inline: true})
	}
	if m.ContextWindow > 0 {
		fields = append(fields, DiscordEmbedField{Name: "Context window", Value: strconv.Itoa(m.ContextWindow) + " tokens", Inline: true})
	}
	if m.PricingInfo != nil {
		fields = append(fields, DiscordEmbedField{
			Name:   "Pricing (per 1M tokens)",
			Value:  fmt.Sprintf("$%.2f in / $%.2f out", m.PricingInfo.Input, m.PricingInfo.Output),
			Inline: true,
		})
	}

	embed := DiscordEmbed{
		Title:       truncate(releaseTitle(m), discordMaxTitle),
		Description: truncate(m.Description, discordMaxDescription),
		URL:         m.AnnouncementURL,
		Color:       discordBlurple,
		Fields:      fields,
		Footer:      DiscordEmbedFooter{Text: "Model Tracker"},
		Timestamp:   m.ReleaseDate.UTC().Format(time.RFC3339),
	}
	if m.ImageURL != "" {
		embed.Thumbnail = &DiscordEmbedImage{URL: m.ImageURL}
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// NotifyModel posts the release to Discord.
func (d *DiscordNotifier) NotifyModel(ctx context.Context, model *entity.Model) error {
	return d.sender.send(ctx, model.Slug, buildDiscordPayload(model))
}

// releaseTitle matches the news entry title written on insert.
func releaseTitle(m *entity.Model) string {
	return "New Model Release: " + m.Name
}
