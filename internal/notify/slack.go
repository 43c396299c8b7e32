// Package notify posts an optional post-publish summary to Slack.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier is the optional notification hook run after a successful
// publish. Failures are logged and ignored.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// SlackNotifier posts messages to a Slack channel via the Web API.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// Notify posts the message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("slack notification failed: %w", err)
	}
	return nil
}

var _ Notifier = (*SlackNotifier)(nil)
