package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/utils/errutil"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
)

// EditorUseCase drives segment editors: form edits, the submit flow and the
// open/close lifecycle. Every surface (HTTP, terminal, one-shot CLI) goes
// through it so there is a single form-state implementation.
type EditorUseCase struct {
	repo      interfaces.Repository
	sender    interfaces.SegmentSender
	notifiers []interfaces.Notifier
	policy    model.NotificationPolicy
	onSave    SaveHook
	onClose   CloseHook
	clock     func() time.Time
}

// SubmitResult describes a settled submission
type SubmitResult struct {
	Outcome      types.SubmitState     `json:"outcome"`
	Payload      *model.SegmentPayload `json:"payload"`
	Notification *model.Notification   `json:"notification"`
	// Err is the delivery error, nil on success. It matches model.ErrDeliveryFailed.
	Err error `json:"-"`
}

type editorOption func(*EditorUseCase)

func withNotifiers(n []interfaces.Notifier) editorOption {
	return func(uc *EditorUseCase) {
		uc.notifiers = n
	}
}

func withPolicy(p model.NotificationPolicy) editorOption {
	return func(uc *EditorUseCase) {
		uc.policy = p
	}
}

func withHooks(onSave SaveHook, onClose CloseHook) editorOption {
	return func(uc *EditorUseCase) {
		uc.onSave = onSave
		uc.onClose = onClose
	}
}

func withClock(clock func() time.Time) editorOption {
	return func(uc *EditorUseCase) {
		uc.clock = clock
	}
}

func NewEditorUseCase(repo interfaces.Repository, sender interfaces.SegmentSender, opts ...editorOption) *EditorUseCase {
	uc := &EditorUseCase{
		repo:   repo,
		sender: sender,
		policy: model.DefaultNotificationPolicy(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Catalog returns the schema fields that can be attached to a segment
func (uc *EditorUseCase) Catalog() []model.SchemaField {
	return model.Catalog()
}

// Open starts a new editor with empty state
func (uc *EditorUseCase) Open(ctx context.Context) (*model.EditorView, error) {
	editor := model.NewEditor(types.NewSessionID(), uc.clock())
	if err := uc.repo.Editor().Put(ctx, editor); err != nil {
		return nil, goerr.Wrap(err, "failed to store editor")
	}

	logging.From(ctx).Debug("Editor opened", "session_id", editor.ID())
	return editor.View(uc.clock()), nil
}

// Get returns the current state of an editor, open or closed
func (uc *EditorUseCase) Get(ctx context.Context, id types.SessionID) (*model.EditorView, error) {
	editor, err := uc.editor(ctx, id)
	if err != nil {
		return nil, err
	}
	return editor.View(uc.clock()), nil
}

// SetName updates the segment name
func (uc *EditorUseCase) SetName(ctx context.Context, id types.SessionID, name string) (*model.EditorView, error) {
	return uc.edit(ctx, id, func(form *model.SegmentForm) error {
		form.SetName(name)
		return nil
	})
}

// SelectSchema picks the catalog entry to add next. An empty value clears it.
func (uc *EditorUseCase) SelectSchema(ctx context.Context, id types.SessionID, value types.SchemaFieldID) (*model.EditorView, error) {
	return uc.edit(ctx, id, func(form *model.SegmentForm) error {
		return form.SelectPending(value)
	})
}

// AddSchema commits the pending schema field. added is false when there was
// nothing to add; that is not an error.
func (uc *EditorUseCase) AddSchema(ctx context.Context, id types.SessionID) (view *model.EditorView, added bool, err error) {
	view, err = uc.edit(ctx, id, func(form *model.SegmentForm) error {
		added = form.AddPending()
		return nil
	})
	return view, added, err
}

// ChangeSchema replaces the field at index with the catalog entry value.
// Entries used by another row are rejected, as a selector would disable them.
func (uc *EditorUseCase) ChangeSchema(ctx context.Context, id types.SessionID, index int, value types.SchemaFieldID) (*model.EditorView, error) {
	field, ok := model.LookupSchema(value)
	if !ok {
		return nil, goerr.Wrap(model.ErrUnknownSchema, "cannot change schema",
			goerr.V(SessionIDKey, id),
			goerr.V(SchemaValueKey, value))
	}

	return uc.edit(ctx, id, func(form *model.SegmentForm) error {
		options, err := form.OptionsAt(index)
		if err != nil {
			return err
		}
		for _, o := range options {
			if o.Value == value && o.Disabled {
				return goerr.Wrap(model.ErrSchemaAlreadySelected, "cannot change schema",
					goerr.V(SessionIDKey, id),
					goerr.V(IndexKey, index),
					goerr.V(SchemaValueKey, value))
			}
		}
		return form.ChangeAt(index, field)
	})
}

// Validate checks the editor can be submitted without sending anything. A
// failure leaves the validation message in the view, as Submit does.
func (uc *EditorUseCase) Validate(ctx context.Context, id types.SessionID) (*model.EditorView, error) {
	return uc.edit(ctx, id, func(form *model.SegmentForm) error {
		return form.Validate()
	})
}

// Submit validates the editor and delivers its segment. A validation error is
// returned as an error with the editor left open. A delivery failure is not
// an error of Submit: it settles the editor like a success does and is
// reported in SubmitResult.Err.
func (uc *EditorUseCase) Submit(ctx context.Context, id types.SessionID) (*SubmitResult, error) {
	if uc.sender == nil {
		return nil, goerr.Wrap(ErrSenderNotConfigured, "cannot submit", goerr.V(SessionIDKey, id))
	}

	editor, err := uc.editor(ctx, id)
	if err != nil {
		return nil, err
	}

	sub, err := editor.BeginSubmit(ctx, uc.clock())
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx).With("session_id", id, "segment_name", sub.Payload.SegmentName)
	logger.Info("Submitting segment", "schema_count", len(sub.Payload.Schema))

	sendErr := uc.sender.Send(sub.Context(), sub.Payload)

	outcome := types.SubmitStateSucceeded
	var deliveryErr error
	if sendErr != nil {
		outcome = types.SubmitStateFailed
		deliveryErr = goerr.Wrap(errors.Join(model.ErrDeliveryFailed, sendErr), "segment delivery failed",
			goerr.V(SessionIDKey, id))
	}

	now := uc.clock()
	notification := uc.policy.Build(sub.Payload.SegmentName, sendErr, now)
	if !editor.Settle(sub, outcome, notification, now) {
		logger.Warn("Ignoring result of submission settled after close", "outcome", outcome)
		return nil, goerr.Wrap(model.ErrStaleSubmission, "editor closed during submission", goerr.V(SessionIDKey, id))
	}

	if deliveryErr != nil {
		errutil.Log(ctx, deliveryErr, "Failed to deliver segment", "session_id", id)
	} else {
		logger.Info("Segment delivered")
	}

	// hooks and notifications outlive the caller's context
	settledCtx := context.WithoutCancel(ctx)
	uc.notify(settledCtx, notification)
	if outcome == types.SubmitStateSucceeded && uc.onSave != nil {
		uc.onSave(settledCtx, sub.Payload)
	}
	if uc.onClose != nil {
		uc.onClose(settledCtx, id)
	}

	return &SubmitResult{
		Outcome:      outcome,
		Payload:      sub.Payload,
		Notification: notification,
		Err:          deliveryErr,
	}, nil
}

// Close dismisses an editor and cancels its in-flight submission, if any.
// Closing an already closed editor is a no-op.
func (uc *EditorUseCase) Close(ctx context.Context, id types.SessionID) (*model.EditorView, error) {
	editor, err := uc.editor(ctx, id)
	if err != nil {
		return nil, err
	}

	if editor.Close(uc.clock()) {
		logging.From(ctx).Debug("Editor closed", "session_id", id)
		if uc.onClose != nil {
			uc.onClose(ctx, id)
		}
	}
	return editor.View(uc.clock()), nil
}

// Sweep closes and forgets editors not touched within ttl. It returns the
// number of editors removed.
func (uc *EditorUseCase) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	editors, err := uc.repo.Editor().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list editors")
	}

	now := uc.clock()
	removed := 0
	for _, editor := range editors {
		if now.Sub(editor.UpdatedAt()) < ttl {
			continue
		}

		if editor.Close(now) && uc.onClose != nil {
			uc.onClose(ctx, editor.ID())
		}
		if err := uc.repo.Editor().Delete(ctx, editor.ID()); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return removed, goerr.Wrap(err, "failed to delete editor", goerr.V(SessionIDKey, editor.ID()))
		}
		removed++
	}

	return removed, nil
}

func (uc *EditorUseCase) notify(ctx context.Context, n *model.Notification) {
	for _, notifier := range uc.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errutil.Log(ctx, err, "Failed to send notification")
		}
	}
}

func (uc *EditorUseCase) edit(ctx context.Context, id types.SessionID, fn func(form *model.SegmentForm) error) (*model.EditorView, error) {
	editor, err := uc.editor(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := editor.Edit(uc.clock(), fn); err != nil {
		return nil, err
	}
	return editor.View(uc.clock()), nil
}

func (uc *EditorUseCase) editor(ctx context.Context, id types.SessionID) (*model.Editor, error) {
	editor, err := uc.repo.Editor().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSessionNotFound, "editor not found", goerr.V(SessionIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get editor", goerr.V(SessionIDKey, id))
	}
	return editor, nil
}
