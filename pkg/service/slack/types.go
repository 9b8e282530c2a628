package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service posts messages to a single, preconfigured Slack destination
type Service interface {
	// PostMessage posts a Block Kit message. The text parameter is used as a
	// fallback for notifications.
	PostMessage(ctx context.Context, blocks []slack.Block, text string) error
}
