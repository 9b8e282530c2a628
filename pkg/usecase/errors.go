package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrSessionNotFound = errors.New("editor session not found")

	// Configuration errors
	ErrSenderNotConfigured = errors.New("segment sender is not configured")
)

// Context keys for error values
const (
	SessionIDKey   = "session_id"
	SchemaValueKey = "schema_value"
	IndexKey       = "index"
)
