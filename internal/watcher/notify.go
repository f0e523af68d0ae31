package watcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// Notifier delivers an alert somewhere.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// WriterNotifier prints alerts as single lines, typically to stderr.
type WriterNotifier struct {
	W io.Writer
}

// Notify writes "[level] title: message".
func (n WriterNotifier) Notify(_ context.Context, alert Alert) error {
	_, err := fmt.Fprintf(n.W, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}

// SlackNotifier posts alerts to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	// Client is used for the request; nil means http.DefaultClient.
	Client *http.Client
}

// levelColors maps alert levels to Slack attachment colors.
var levelColors = map[string]string{
	LevelInfo:     "#64b5f6",
	LevelWarning:  "warning",
	LevelCritical: "danger",
}

// Notify posts the alert as a single attachment.
func (n SlackNotifier) Notify(ctx context.Context, alert Alert) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("autoscout %s alert", alert.Level),
		Attachments: []slack.Attachment{{
			Color:  levelColors[alert.Level],
			Title:  alert.Title,
			Text:   alert.Message,
			Footer: footer(alert),
		}},
	}
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.WebhookURL, client, msg); err != nil {
		return fmt.Errorf("posting slack webhook: %w", err)
	}
	return nil
}

func footer(a Alert) string {
	if a.Time.IsZero() {
		return ""
	}
	return a.Time.UTC().Format(time.RFC3339)
}

// Notify delivers alert to every notifier and returns the first error.
// Every notifier is attempted even when an earlier one fails.
func Notify(ctx context.Context, alert Alert, notifiers ...Notifier) error {
	var first error
	for _, n := range notifiers {
		if err := n.Notify(ctx, alert); err != nil && first == nil {
			first = err
		}
	}
	return first
}
