package slack

import (
	"context"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// botClient posts through the Web API with a bot token
type botClient struct {
	api       *slack.Client
	channelID string
	apiURL    string
}

// webhookClient posts through an incoming webhook URL
type webhookClient struct {
	url string
}

// Option is a functional option for bot client configuration
type Option func(*botClient)

// WithAPIURL points the bot client at a different Slack API base URL
func WithAPIURL(apiURL string) Option {
	return func(c *botClient) {
		c.apiURL = apiURL
	}
}

// New creates a Slack service posting to channelID with the provided bot token
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &botClient{
		channelID: channelID,
	}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// NewWebhook creates a Slack service posting to an incoming webhook
func NewWebhook(webhookURL string) (Service, error) {
	u, err := url.Parse(webhookURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return nil, goerr.New("Slack webhook URL must be an absolute https URL")
	}
	return &webhookClient{url: webhookURL}, nil
}

func (c *botClient) PostMessage(ctx context.Context, blocks []slack.Block, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channel_id", c.channelID))
	}
	return nil
}

func (c *webhookClient) PostMessage(ctx context.Context, blocks []slack.Block, text string) error {
	msg := &slack.WebhookMessage{
		Text:   text,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	if err := slack.PostWebhookContext(ctx, c.url, msg); err != nil {
		return goerr.Wrap(err, "failed to post webhook message")
	}
	return nil
}
