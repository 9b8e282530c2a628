package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// File is the optional TOML configuration file. Values given by flags or
// environment variables take precedence over the file.
type File struct {
	Webhook      WebhookFile      `toml:"webhook"`
	Notification NotificationFile `toml:"notification"`
}

// WebhookFile is the [webhook] section
type WebhookFile struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

// NotificationFile is the [notification] section
type NotificationFile struct {
	SuccessMessage string `toml:"success_message"`
	FailureMessage string `toml:"failure_message"`
	FailureNotice  string `toml:"failure_notice"`
	TTL            string `toml:"ttl"`
	SlackChannel   string `toml:"slack_channel"`
}

// Validate checks if the File is valid
func (f *File) Validate() error {
	if f.Webhook.Endpoint != "" {
		if err := validateEndpoint(f.Webhook.Endpoint); err != nil {
			return err
		}
	}
	if _, err := parseDuration("webhook.timeout", f.Webhook.Timeout); err != nil {
		return err
	}
	if f.Notification.FailureNotice != "" {
		if _, err := types.ParseFailureNotice(f.Notification.FailureNotice); err != nil {
			return goerr.Wrap(ErrInvalidFailureNotice, "invalid notification.failure_notice",
				goerr.V(FailureNoticeKey, f.Notification.FailureNotice))
		}
	}
	if _, err := parseDuration("notification.ttl", f.Notification.TTL); err != nil {
		return err
	}
	return nil
}

// LoadFile reads and validates a TOML configuration file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse config file", goerr.V(ConfigPathKey, path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid config file", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// Source is the --config flag
type Source struct {
	path string
}

func (x *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("SEGMENTOR_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Load returns the configuration file, or an empty one if --config is not given
func (x *Source) Load() (*File, error) {
	if x.path == "" {
		return &File{}, nil
	}
	return LoadFile(x.path)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, goerr.Wrap(ErrInvalidDuration, "duration must be positive",
			goerr.V(FieldKey, field),
			goerr.V(ValueKey, s))
	}
	return d, nil
}
