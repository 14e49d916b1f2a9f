package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"model-tracker/internal/domain/entity"
)

// SlackConfig configures the Slack incoming-webhook notifier.
type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// SlackNotifier posts releases as Block Kit messages.
type SlackNotifier struct {
	sender *webhookSender
}

// NewSlackNotifier creates a Slack notifier paced at one message per
// second.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		sender: newWebhookSender("slack", config.WebhookURL, config.Timeout, NewRateLimiter(1, 1)),
	}
}

// SlackWebhookPayload is the body of a Slack webhook call. Text is the
// notification fallback.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a section or context block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is mrkdwn or plain_text.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	slackMaxSection  = 3000
	slackMaxContext  = 2000
	slackMaxFallback = 150
)

func buildSlackPayload(m *entity.Model) SlackWebhookPayload {
	title := "*" + releaseTitle(m) + "*"
	if m.AnnouncementURL != "" {
		title = fmt.Sprintf("*<%s|%s>*", m.AnnouncementURL, releaseTitle(m))
	}
	section := title
	if m.Description != "" {
		section += "\n\n" + m.Description
	}

	details := []string{m.Provider}
	if m.ModelType != "" {
		details = append(details, m.ModelType)
	}
	details = append(details, m.ReleaseDate.UTC().Format(entity.DateLayout))

	return SlackWebhookPayload{
		Text: truncate(fmt.Sprintf("%s (%s)", releaseTitle(m), m.Provider), slackMaxFallback),
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(section, slackMaxSection)}},
			{Type: "context", Elements: []SlackTextObject{{Type: "mrkdwn", Text: truncate(strings.Join(details, " • "), slackMaxContext)}}},
		},
	}
}

// NotifyModel posts the release to Slack.
func (s *SlackNotifier) NotifyModel(ctx context.Context, model *entity.Model) error {
	return s.sender.send(ctx, model.Slug, buildSlackPayload(model))
}
