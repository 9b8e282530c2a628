package model_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

var baseTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newNamedEditor(t *testing.T, name string) *model.Editor {
	t.Helper()
	e := model.NewEditor(types.NewSessionID(), baseTime)
	gt.NoError(t, e.Edit(baseTime, func(f *model.SegmentForm) error {
		f.SetName(name)
		return nil
	})).Required()
	return e
}

func TestEditor_BeginSubmit(t *testing.T) {
	t.Run("invalid name keeps editor open and idle", func(t *testing.T) {
		e := newNamedEditor(t, "  ")

		sub, err := e.BeginSubmit(context.Background(), baseTime)
		gt.Error(t, err).Is(model.ErrEmptySegmentName)
		gt.Value(t, sub).Nil()

		v := e.View(baseTime)
		gt.B(t, v.Open).True()
		gt.Value(t, v.State).Equal(types.SubmitStateIdle)
		gt.Value(t, v.NameError).Equal(model.NameRequiredMessage)
	})

	t.Run("valid name moves to submitting with payload", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")

		sub, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()
		gt.Value(t, sub.Payload).Equal(&model.SegmentPayload{SegmentName: "VIP Users", Schema: map[string]string{}})
		gt.Value(t, e.View(baseTime).State).Equal(types.SubmitStateSubmitting)
	})

	t.Run("second submit while in flight is rejected", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")

		_, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()

		_, err = e.BeginSubmit(context.Background(), baseTime)
		gt.Error(t, err).Is(model.ErrSubmitInProgress)
	})

	t.Run("form is frozen while submitting", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")
		_, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()

		err = e.Edit(baseTime, func(f *model.SegmentForm) error {
			f.SetName("other")
			return nil
		})
		gt.Error(t, err).Is(model.ErrSubmitInProgress)
	})
}

func TestEditor_Settle(t *testing.T) {
	policy := model.DefaultNotificationPolicy()

	t.Run("success closes and resets the editor", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")
		gt.NoError(t, e.Edit(baseTime, func(f *model.SegmentForm) error {
			if err := f.SelectPending("city"); err != nil {
				return err
			}
			f.AddPending()
			return nil
		})).Required()

		sub, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()

		n := policy.Build(sub.Payload.SegmentName, nil, baseTime)
		gt.B(t, e.Settle(sub, types.SubmitStateSucceeded, n, baseTime)).True()

		v := e.View(baseTime)
		gt.B(t, v.Open).False()
		gt.Value(t, v.State).Equal(types.SubmitStateIdle)
		gt.Value(t, v.Outcome).Equal(types.SubmitStateSucceeded)
		gt.Value(t, v.Name).Equal("")
		gt.Array(t, v.Selection).Length(0)
		gt.Value(t, v.Notification).Equal(n)
		gt.Error(t, sub.Context().Err()).Is(context.Canceled)
	})

	t.Run("failure also closes the editor", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")
		sub, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()

		n := policy.Build(sub.Payload.SegmentName, errors.New("boom"), baseTime)
		gt.B(t, e.Settle(sub, types.SubmitStateFailed, n, baseTime)).True()

		v := e.View(baseTime)
		gt.B(t, v.Open).False()
		gt.Value(t, v.Outcome).Equal(types.SubmitStateFailed)
	})

	t.Run("result after close is stale", func(t *testing.T) {
		e := newNamedEditor(t, "VIP Users")
		sub, err := e.BeginSubmit(context.Background(), baseTime)
		gt.NoError(t, err).Required()

		gt.B(t, e.Close(baseTime)).True()
		gt.Error(t, sub.Context().Err()).Is(context.Canceled)

		n := policy.Build(sub.Payload.SegmentName, nil, baseTime)
		gt.B(t, e.Settle(sub, types.SubmitStateSucceeded, n, baseTime)).False()
		gt.Value(t, e.View(baseTime).Notification).Nil()
	})
}

func TestEditor_Close(t *testing.T) {
	e := newNamedEditor(t, "draft")

	gt.B(t, e.Close(baseTime)).True()
	gt.B(t, e.Close(baseTime)).False()
	gt.B(t, e.IsOpen()).False()

	err := e.Edit(baseTime, func(f *model.SegmentForm) error { return nil })
	gt.Error(t, err).Is(model.ErrEditorClosed)

	_, err = e.BeginSubmit(context.Background(), baseTime)
	gt.Error(t, err).Is(model.ErrEditorClosed)
}

func TestEditor_View(t *testing.T) {
	e := newNamedEditor(t, "draft")
	gt.NoError(t, e.Edit(baseTime, func(f *model.SegmentForm) error {
		for _, v := range []types.SchemaFieldID{"first_name", "city"} {
			if err := f.SelectPending(v); err != nil {
				return err
			}
			f.AddPending()
		}
		return f.SelectPending("age")
	})).Required()

	v := e.View(baseTime)
	gt.Value(t, v.Name).Equal("draft")
	gt.Array(t, v.Selection).Length(2)
	gt.Array(t, v.Options).Length(2)
	gt.Array(t, v.Available).Length(5)
	gt.Value(t, v.Pending.Value).Equal(types.SchemaFieldID("age"))
}

func TestEditor_ViewHidesExpiredNotification(t *testing.T) {
	e := newNamedEditor(t, "VIP Users")
	sub, err := e.BeginSubmit(context.Background(), baseTime)
	gt.NoError(t, err).Required()

	n := model.DefaultNotificationPolicy().Build(sub.Payload.SegmentName, nil, baseTime)
	gt.B(t, e.Settle(sub, types.SubmitStateSucceeded, n, baseTime)).True()

	gt.Value(t, e.View(baseTime.Add(time.Second)).Notification).Equal(n)
	gt.Value(t, e.View(n.ExpiresAt).Notification).Nil()

	v := e.View(baseTime.Add(time.Hour))
	gt.Value(t, v.Notification).Nil()
	gt.Value(t, v.Outcome).Equal(types.SubmitStateSucceeded)
}
