package model

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// Editor is one open→close lifecycle of the segment editor. It owns its form
// and drives the submit flow:
//
//	Idle → Validating → Submitting → Settled(Succeeded|Failed) → closed
//
// Validation failure returns to Idle with the editor still open. Every
// settle closes the editor and discards the form.
type Editor struct {
	mu sync.Mutex

	id           types.SessionID
	form         *SegmentForm
	open         bool
	state        types.SubmitState
	outcome      types.SubmitState
	attempt      uint64
	cancel       context.CancelFunc
	notification *Notification
	createdAt    time.Time
	updatedAt    time.Time
}

// Submission is an in-flight submit started by Editor.BeginSubmit
type Submission struct {
	ctx     context.Context
	attempt uint64
	Payload *SegmentPayload
}

// Context is cancelled when the editor closes before the submission settles
func (s *Submission) Context() context.Context {
	return s.ctx
}

// NewEditor opens a new editor with an empty form
func NewEditor(id types.SessionID, now time.Time) *Editor {
	return &Editor{
		id:        id,
		form:      NewSegmentForm(),
		open:      true,
		state:     types.SubmitStateIdle,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session ID of the editor
func (e *Editor) ID() types.SessionID {
	return e.id
}

// IsOpen reports whether the editor still accepts input
func (e *Editor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// UpdatedAt returns the time of the last change
func (e *Editor) UpdatedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updatedAt
}

// Edit applies fn to the form. The form cannot change once the editor is
// closed or while a submission is in flight.
func (e *Editor) Edit(now time.Time, fn func(form *SegmentForm) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return goerr.Wrap(ErrEditorClosed, "cannot edit", goerr.V(SessionIDKey, e.id))
	}
	if e.state == types.SubmitStateSubmitting {
		return goerr.Wrap(ErrSubmitInProgress, "cannot edit", goerr.V(SessionIDKey, e.id))
	}

	e.updatedAt = now
	return fn(e.form)
}

// BeginSubmit validates the form and moves the editor to Submitting. The
// returned submission carries the payload and a context derived from ctx
// that is cancelled by Close. A validation error leaves the editor open and
// Idle with the message available in the view.
func (e *Editor) BeginSubmit(ctx context.Context, now time.Time) (*Submission, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return nil, goerr.Wrap(ErrEditorClosed, "cannot submit", goerr.V(SessionIDKey, e.id))
	}
	if e.state == types.SubmitStateSubmitting {
		return nil, goerr.Wrap(ErrSubmitInProgress, "cannot submit", goerr.V(SessionIDKey, e.id))
	}

	e.updatedAt = now
	e.state = types.SubmitStateValidating
	if err := e.form.Validate(); err != nil {
		e.state = types.SubmitStateIdle
		return nil, goerr.Wrap(err, "segment validation failed", goerr.V(SessionIDKey, e.id))
	}

	subCtx, cancel := context.WithCancel(ctx)
	e.attempt++
	e.cancel = cancel
	e.state = types.SubmitStateSubmitting

	return &Submission{
		ctx:     subCtx,
		attempt: e.attempt,
		Payload: e.form.Payload(),
	}, nil
}

// Settle records the result of sub and closes the editor. It returns false
// when sub is stale: the editor was closed or another attempt replaced it.
// A stale result must not be reported to the user.
func (e *Editor) Settle(sub *Submission, outcome types.SubmitState, n *Notification, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open || e.state != types.SubmitStateSubmitting || sub.attempt != e.attempt {
		return false
	}

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	e.outcome = outcome
	e.notification = n
	e.closeLocked(now)
	return true
}

// Close dismisses the editor, cancelling an in-flight submission. It returns
// false if the editor was already closed.
func (e *Editor) Close(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return false
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.closeLocked(now)
	return true
}

func (e *Editor) closeLocked(now time.Time) {
	e.open = false
	e.state = types.SubmitStateIdle
	e.form.Reset()
	e.updatedAt = now
}

// EditorView is a read-only snapshot of an editor
type EditorView struct {
	ID           types.SessionID   `json:"id"`
	Open         bool              `json:"open"`
	State        types.SubmitState `json:"state"`
	Outcome      types.SubmitState `json:"outcome,omitempty"`
	Name         string            `json:"name"`
	NameError    string            `json:"name_error,omitempty"`
	Pending      *SchemaField      `json:"pending,omitempty"`
	Selection    []SchemaField     `json:"selection"`
	Options      [][]SchemaOption  `json:"options"`
	Available    []SchemaField     `json:"available"`
	Notification *Notification     `json:"notification,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// View returns a snapshot of the editor as of now. The settle notification
// is left out once it has expired.
func (e *Editor) View(now time.Time) *EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()

	selection := e.form.Selection()
	options := make([][]SchemaOption, len(selection))
	for i := range selection {
		// index is always in range here
		opts, _ := e.form.OptionsAt(i)
		options[i] = opts
	}

	v := &EditorView{
		ID:           e.id,
		Open:         e.open,
		State:        e.state,
		Outcome:      e.outcome,
		Name:         e.form.Name(),
		NameError:    e.form.NameError(),
		Selection:    selection,
		Options:      options,
		Available:    e.form.Available(),
		CreatedAt:    e.createdAt,
		UpdatedAt:    e.updatedAt,
	}
	if p, ok := e.form.Pending(); ok {
		v.Pending = &p
	}
	if e.notification.Visible(now) {
		v.Notification = e.notification
	}
	return v
}
