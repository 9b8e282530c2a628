package usecase

import (
	"time"

	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
)

// NewEditorUseCaseForTest builds an EditorUseCase with explicit collaborators
func NewEditorUseCaseForTest(repo interfaces.Repository, sender interfaces.SegmentSender, notifiers []interfaces.Notifier, policy model.NotificationPolicy, clock func() time.Time) *EditorUseCase {
	return NewEditorUseCase(repo, sender,
		withNotifiers(notifiers),
		withPolicy(policy),
		withClock(clock),
	)
}
