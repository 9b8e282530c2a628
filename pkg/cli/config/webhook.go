package config

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/service/webhook"
	"github.com/urfave/cli/v3"
)

// Webhook configures the endpoint segments are posted to
type Webhook struct {
	endpoint string
	timeout  time.Duration
}

func (x *Webhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "URL that receives the segment as a JSON POST",
			Category:    "Webhook",
			Value:       webhook.DefaultEndpoint,
			Sources:     cli.EnvVars("SEGMENTOR_ENDPOINT"),
			Destination: &x.endpoint,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of the segment POST",
			Category:    "Webhook",
			Value:       webhook.DefaultTimeout,
			Sources:     cli.EnvVars("SEGMENTOR_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Webhook) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", redactURL(x.endpoint)),
		slog.Duration("timeout", x.timeout),
	)
}

// Merge takes values from the [webhook] section for flags not set explicitly
func (x *Webhook) Merge(file *File, isSet func(name string) bool) {
	if file == nil {
		return
	}
	if file.Webhook.Endpoint != "" && !isSet("endpoint") {
		x.endpoint = file.Webhook.Endpoint
	}
	if file.Webhook.Timeout != "" && !isSet("timeout") {
		// validated by File.Validate
		d, _ := parseDuration("webhook.timeout", file.Webhook.Timeout)
		x.timeout = d
	}
}

// Configure creates the segment sender
func (x *Webhook) Configure() (interfaces.SegmentSender, error) {
	if err := validateEndpoint(x.endpoint); err != nil {
		return nil, err
	}
	if x.timeout <= 0 {
		return nil, goerr.Wrap(ErrInvalidDuration, "webhook timeout must be positive", goerr.V(ValueKey, x.timeout))
	}

	sender, err := webhook.New(x.endpoint, webhook.WithTimeout(x.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create webhook client")
	}
	return sender, nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return goerr.Wrap(ErrInvalidEndpoint, "endpoint must be an absolute http(s) URL", goerr.V(EndpointKey, redactURL(endpoint)))
	}
	return nil
}

// redactURL drops the query and user info, which may carry credentials
func redactURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "(invalid)"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
