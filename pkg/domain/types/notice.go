package types

import "fmt"

// Severity is the visual style of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// FailureNotice selects how a failed delivery is reported to the user
type FailureNotice string

const (
	// FailureNoticeDistinct reports a failed delivery with an error notification
	FailureNoticeDistinct FailureNotice = "distinct"
	// FailureNoticeOptimistic reports a failed delivery with the success notification
	FailureNoticeOptimistic FailureNotice = "optimistic"
)

// AllFailureNotices returns all valid failure notice modes
func AllFailureNotices() []FailureNotice {
	return []FailureNotice{
		FailureNoticeDistinct,
		FailureNoticeOptimistic,
	}
}

// IsValid checks if the failure notice mode is valid
func (f FailureNotice) IsValid() bool {
	switch f {
	case FailureNoticeDistinct, FailureNoticeOptimistic:
		return true
	default:
		return false
	}
}

// String returns the string representation of the failure notice mode
func (f FailureNotice) String() string {
	return string(f)
}

// ParseFailureNotice parses a string into a FailureNotice
func ParseFailureNotice(s string) (FailureNotice, error) {
	f := FailureNotice(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid failure notice: %s", s)
	}
	return f, nil
}
