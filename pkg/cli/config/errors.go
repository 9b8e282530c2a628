package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound       = goerr.New("configuration file not found")
	ErrInvalidConfig        = goerr.New("invalid configuration")
	ErrInvalidDuration      = goerr.New("invalid duration")
	ErrInvalidEndpoint      = goerr.New("invalid webhook endpoint")
	ErrInvalidFailureNotice = goerr.New("invalid failure notice")
	ErrInvalidLogLevel      = goerr.New("invalid log level")
	ErrInvalidLogFormat     = goerr.New("invalid log format")
	ErrSlackChannelRequired = goerr.New("slack channel is required with a bot token")
)

// Context keys for error values
const (
	ConfigPathKey    = "config_path"
	FieldKey         = "field"
	ValueKey         = "value"
	EndpointKey      = "endpoint"
	FailureNoticeKey = "failure_notice"
)
