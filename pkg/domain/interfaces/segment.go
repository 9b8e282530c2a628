package interfaces

import (
	"context"

	"github.com/secmon-lab/segmentor/pkg/domain/model"
)

// SegmentSender delivers a segment to the remote endpoint. Any failure is
// reported as a single error; callers do not inspect its kind.
type SegmentSender interface {
	Send(ctx context.Context, payload *model.SegmentPayload) error
}

// Notifier surfaces a settle notification to the user
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}
