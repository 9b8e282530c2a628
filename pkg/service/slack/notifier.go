package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Notifier relays settle notifications to Slack
type Notifier struct {
	svc Service
}

var _ interfaces.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier backed by svc
func NewNotifier(svc Service) *Notifier {
	return &Notifier{svc: svc}
}

// Notify posts n as a Block Kit message
func (x *Notifier) Notify(ctx context.Context, n *model.Notification) error {
	blocks, text := buildNotificationBlocks(n)
	if err := x.svc.PostMessage(ctx, blocks, text); err != nil {
		return goerr.Wrap(err, "failed to notify Slack", goerr.V("segment_name", n.SegmentName))
	}
	return nil
}

func buildNotificationBlocks(n *model.Notification) ([]slack.Block, string) {
	icon := ":white_check_mark:"
	if n.Severity == types.SeverityError {
		icon = ":x:"
	}

	text := fmt.Sprintf("%s %s", icon, n.Message)
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s *%s*", icon, n.Message), false, false),
			nil, nil,
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Segment: `%s`", n.SegmentName), false, false),
		),
	}

	if n.Cause != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.PlainTextType, n.Cause, false, false),
		))
	}

	return blocks, text
}
