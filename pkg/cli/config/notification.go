package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Notification configures the settle notification text and its remote sinks
type Notification struct {
	successMessage  string
	failureMessage  string
	failureNotice   string
	ttl             time.Duration
	slackBotToken   string
	slackChannel    string
	slackWebhookURL string
}

func (x *Notification) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "success-message",
			Usage:       "Notification text shown after the segment is saved",
			Category:    "Notification",
			Value:       model.DefaultSuccessMessage,
			Sources:     cli.EnvVars("SEGMENTOR_SUCCESS_MESSAGE"),
			Destination: &x.successMessage,
		},
		&cli.StringFlag{
			Name:        "failure-message",
			Usage:       "Notification text shown when the segment could not be saved",
			Category:    "Notification",
			Value:       model.DefaultFailureMessage,
			Sources:     cli.EnvVars("SEGMENTOR_FAILURE_MESSAGE"),
			Destination: &x.failureMessage,
		},
		&cli.StringFlag{
			Name:        "failure-notice",
			Usage:       "How a failed save is reported [distinct|optimistic]",
			Category:    "Notification",
			Value:       types.FailureNoticeDistinct.String(),
			Sources:     cli.EnvVars("SEGMENTOR_FAILURE_NOTICE"),
			Destination: &x.failureNotice,
		},
		&cli.DurationFlag{
			Name:        "notification-ttl",
			Usage:       "How long a notification stays visible",
			Category:    "Notification",
			Value:       model.DefaultNotificationTTL,
			Sources:     cli.EnvVars("SEGMENTOR_NOTIFICATION_TTL"),
			Destination: &x.ttl,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token to post notifications with",
			Category:    "Slack",
			Sources:     cli.EnvVars("SEGMENTOR_SLACK_BOT_TOKEN"),
			Destination: &x.slackBotToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID notifications are posted to",
			Category:    "Slack",
			Sources:     cli.EnvVars("SEGMENTOR_SLACK_CHANNEL"),
			Destination: &x.slackChannel,
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL, used instead of the bot token",
			Category:    "Slack",
			Sources:     cli.EnvVars("SEGMENTOR_SLACK_WEBHOOK_URL"),
			Destination: &x.slackWebhookURL,
		},
	}
}

func (x Notification) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("failure-notice", x.failureNotice),
		slog.Duration("ttl", x.ttl),
		slog.Int("slack-bot-token.len", len(x.slackBotToken)),
		slog.String("slack-channel", x.slackChannel),
		slog.Bool("slack-webhook", x.slackWebhookURL != ""),
	)
}

// Merge takes values from the [notification] section for flags not set explicitly
func (x *Notification) Merge(file *File, isSet func(name string) bool) {
	if file == nil {
		return
	}
	f := file.Notification
	if f.SuccessMessage != "" && !isSet("success-message") {
		x.successMessage = f.SuccessMessage
	}
	if f.FailureMessage != "" && !isSet("failure-message") {
		x.failureMessage = f.FailureMessage
	}
	if f.FailureNotice != "" && !isSet("failure-notice") {
		x.failureNotice = f.FailureNotice
	}
	if f.TTL != "" && !isSet("notification-ttl") {
		// validated by File.Validate
		d, _ := parseDuration("notification.ttl", f.TTL)
		x.ttl = d
	}
	if f.SlackChannel != "" && !isSet("slack-channel") {
		x.slackChannel = f.SlackChannel
	}
}

// Policy builds the notification policy
func (x *Notification) Policy() (model.NotificationPolicy, error) {
	notice, err := types.ParseFailureNotice(x.failureNotice)
	if err != nil {
		return model.NotificationPolicy{}, goerr.Wrap(ErrInvalidFailureNotice, "unsupported failure notice",
			goerr.V(FailureNoticeKey, x.failureNotice))
	}

	policy := model.NotificationPolicy{
		SuccessMessage: x.successMessage,
		FailureMessage: x.failureMessage,
		FailureNotice:  notice,
		TTL:            x.ttl,
	}
	if err := policy.Validate(); err != nil {
		return model.NotificationPolicy{}, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "invalid notification settings")
	}
	return policy, nil
}

// Notifiers creates the remote notifiers that are configured. An incoming
// webhook URL takes precedence over a bot token.
func (x *Notification) Notifiers() ([]interfaces.Notifier, error) {
	switch {
	case x.slackWebhookURL != "":
		svc, err := slack.NewWebhook(x.slackWebhookURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create slack webhook client")
		}
		return []interfaces.Notifier{slack.NewNotifier(svc)}, nil

	case x.slackBotToken != "":
		if x.slackChannel == "" {
			return nil, goerr.Wrap(ErrSlackChannelRequired, "failed to configure slack notifier")
		}
		svc, err := slack.New(x.slackBotToken, x.slackChannel)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create slack client")
		}
		return []interfaces.Notifier{slack.NewNotifier(svc)}, nil
	}

	return nil, nil
}
