package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// SaveHook is called with the delivered payload after a successful submission
type SaveHook func(ctx context.Context, payload *model.SegmentPayload)

// CloseHook is called whenever an editor closes, by the user or after settle
type CloseHook func(ctx context.Context, id types.SessionID)

type UseCases struct {
	repo      interfaces.Repository
	sender    interfaces.SegmentSender
	notifiers []interfaces.Notifier
	policy    model.NotificationPolicy
	onSave    SaveHook
	onClose   CloseHook
	clock     func() time.Time
	Editor    *EditorUseCase
}

type Option func(*UseCases)

func WithSender(sender interfaces.SegmentSender) Option {
	return func(uc *UseCases) {
		uc.sender = sender
	}
}

// WithNotifier adds a notifier; every notifier receives every settle notification
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifiers = append(uc.notifiers, n)
	}
}

func WithNotificationPolicy(p model.NotificationPolicy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

func WithSaveHook(hook SaveHook) Option {
	return func(uc *UseCases) {
		uc.onSave = hook
	}
}

func WithCloseHook(hook CloseHook) Option {
	return func(uc *UseCases) {
		uc.onClose = hook
	}
}

func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		policy: model.DefaultNotificationPolicy(),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Editor = NewEditorUseCase(repo, uc.sender,
		withNotifiers(uc.notifiers),
		withPolicy(uc.policy),
		withHooks(uc.onSave, uc.onClose),
		withClock(uc.clock),
	)

	return uc
}

// Close releases the repository
func (uc *UseCases) Close() error {
	return uc.repo.Close()
}
