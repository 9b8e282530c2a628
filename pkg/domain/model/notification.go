package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

const (
	DefaultSuccessMessage  = "Segment saved successfully!"
	DefaultFailureMessage  = "Failed to save segment"
	DefaultNotificationTTL = 6 * time.Second
)

// Notification is the transient message shown once a submission settles
type Notification struct {
	Severity    types.Severity `json:"severity"`
	Message     string         `json:"message"`
	SegmentName string         `json:"segment_name"`
	Cause       string         `json:"cause,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Visible reports whether the notification should still be displayed
func (n *Notification) Visible(now time.Time) bool {
	return n != nil && now.Before(n.ExpiresAt)
}

// NotificationPolicy decides the text and style of settle notifications
type NotificationPolicy struct {
	SuccessMessage string
	FailureMessage string
	FailureNotice  types.FailureNotice
	TTL            time.Duration
}

// DefaultNotificationPolicy reports failures with a distinct error notification
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		SuccessMessage: DefaultSuccessMessage,
		FailureMessage: DefaultFailureMessage,
		FailureNotice:  types.FailureNoticeDistinct,
		TTL:            DefaultNotificationTTL,
	}
}

// Validate checks if the NotificationPolicy is usable
func (p NotificationPolicy) Validate() error {
	if p.SuccessMessage == "" {
		return goerr.New("success message is required")
	}
	if p.FailureMessage == "" {
		return goerr.New("failure message is required")
	}
	if !p.FailureNotice.IsValid() {
		return goerr.New("invalid failure notice", goerr.V("failure_notice", p.FailureNotice))
	}
	if p.TTL <= 0 {
		return goerr.New("notification TTL must be positive", goerr.V("ttl", p.TTL))
	}
	return nil
}

// Build creates the notification for a settled submission. deliveryErr is nil on success.
// With FailureNoticeOptimistic a failure is shown exactly like a success.
func (p NotificationPolicy) Build(segmentName string, deliveryErr error, now time.Time) *Notification {
	n := &Notification{
		Severity:    types.SeveritySuccess,
		Message:     p.SuccessMessage,
		SegmentName: segmentName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(p.TTL),
	}

	if deliveryErr != nil && p.FailureNotice == types.FailureNoticeDistinct {
		n.Severity = types.SeverityError
		n.Message = p.FailureMessage
		n.Cause = deliveryErr.Error()
	}

	return n
}
