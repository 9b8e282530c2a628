package tui

import "github.com/secmon-lab/segmentor/pkg/domain/types"

const (
	FocusName    = focusName
	FocusPending = focusPending
	FocusAdd     = focusAdd
)

func (m Model) Focus() int {
	return m.focus
}

func (m Model) SaveFocus() int {
	return m.saveFocus()
}

func (m Model) SessionID() types.SessionID {
	return m.view.ID
}
