package config

import "time"

// NewWebhookForTest creates a Webhook config for testing purposes
func NewWebhookForTest(endpoint string, timeout time.Duration) *Webhook {
	return &Webhook{
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

var RedactURL = redactURL
