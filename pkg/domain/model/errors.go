package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrEmptySegmentName      = goerr.New("segment name is required")
	ErrUnknownSchema         = goerr.New("unknown schema field")
	ErrSchemaAlreadySelected = goerr.New("schema field is already selected")
	ErrIndexOutOfRange       = goerr.New("schema index out of range")
)

// Editor lifecycle errors
var (
	ErrEditorClosed     = goerr.New("editor is closed")
	ErrSubmitInProgress = goerr.New("submission already in progress")
	ErrStaleSubmission  = goerr.New("submission settled after editor was closed")
)

// ErrDeliveryFailed wraps any failure of the outbound segment request.
// Timeouts, non-2xx responses and connection errors are not distinguished.
var ErrDeliveryFailed = goerr.New("failed to deliver segment")

// NameRequiredMessage is shown next to the segment name field when validation fails
const NameRequiredMessage = "Segment name is required"

// Context keys for error values
const (
	SchemaValueKey = "schema_value"
	IndexKey       = "index"
	LengthKey      = "length"
	SessionIDKey   = "session_id"
)
