package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/usecase"
)

// EditorUseCase is the subset of usecase.EditorUseCase driven by the terminal editor
type EditorUseCase interface {
	Open(ctx context.Context) (*model.EditorView, error)
	Get(ctx context.Context, id types.SessionID) (*model.EditorView, error)
	SetName(ctx context.Context, id types.SessionID, name string) (*model.EditorView, error)
	SelectSchema(ctx context.Context, id types.SessionID, value types.SchemaFieldID) (*model.EditorView, error)
	AddSchema(ctx context.Context, id types.SessionID) (*model.EditorView, bool, error)
	ChangeSchema(ctx context.Context, id types.SessionID, index int, value types.SchemaFieldID) (*model.EditorView, error)
	Submit(ctx context.Context, id types.SessionID) (*usecase.SubmitResult, error)
	Close(ctx context.Context, id types.SessionID) (*model.EditorView, error)
}

const (
	focusName = iota
	focusPending
	focusAdd
	// selected rows follow focusAdd, then the save button
)

type submitDoneMsg struct {
	result *usecase.SubmitResult
	err    error
}

type dismissMsg struct{}

// Model is the bubbletea model of the segment editor. It renders the editor
// state held by the use case and turns key presses into editor operations.
type Model struct {
	ctx    context.Context
	uc     EditorUseCase
	view   *model.EditorView
	styles Styles

	nameInput textinput.Model
	focus     int

	submitting bool
	result     *usecase.SubmitResult
	err        error
	quitting   bool
}

// New opens an editor and returns the model that drives it
func New(ctx context.Context, uc EditorUseCase) (Model, error) {
	view, err := uc.Open(ctx)
	if err != nil {
		return Model{}, goerr.Wrap(err, "failed to open editor")
	}

	ni := textinput.New()
	ni.Placeholder = "Name of the segment"
	ni.CharLimit = 128
	ni.Width = 40
	ni.Focus()

	return Model{
		ctx:       ctx,
		uc:        uc,
		view:      view,
		styles:    DefaultStyles(),
		nameInput: ni,
		focus:     focusName,
	}, nil
}

// Result returns the settled submission, or nil if the editor was dismissed
func (m Model) Result() *usecase.SubmitResult {
	return m.result
}

// Err returns the last error that ended the editor, if any
func (m Model) Err() error {
	return m.err
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		return m.settle(msg)

	case dismissMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.result != nil {
			// any key dismisses the notification
			m.quitting = true
			return m, tea.Quit
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m.close()
		}
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "left":
			if m.focus != focusName {
				return m.cycle(-1), nil
			}
		case "right":
			if m.focus != focusName {
				return m.cycle(1), nil
			}
		case "enter":
			return m.activate()
		}

		if m.focus == focusName {
			return m.typeName(msg)
		}
	}

	if m.focus == focusName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) saveFocus() int {
	return focusAdd + len(m.view.Selection) + 1
}

func (m Model) rowAt(focus int) (int, bool) {
	i := focus - focusAdd - 1
	return i, i >= 0 && i < len(m.view.Selection)
}

func (m *Model) moveFocus(delta int) {
	n := m.saveFocus() + 1
	m.focus = ((m.focus+delta)%n + n) % n
	if m.focus == focusName {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
}

func (m Model) typeName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	if m.nameInput.Value() == m.view.Name {
		return m, cmd
	}

	view, err := m.uc.SetName(m.ctx, m.view.ID, m.nameInput.Value())
	return m.apply(view, err), cmd
}

// cycle moves the focused selector to the next option in direction delta
func (m Model) cycle(delta int) Model {
	if m.focus == focusPending {
		available := m.view.Available
		if len(available) == 0 {
			return m
		}
		cur := -1
		if m.view.Pending != nil {
			for i, s := range available {
				if s.Value == m.view.Pending.Value {
					cur = i
					break
				}
			}
		}
		next := 0
		switch {
		case cur >= 0:
			next = ((cur+delta)%len(available) + len(available)) % len(available)
		case delta < 0:
			next = len(available) - 1
		}
		view, err := m.uc.SelectSchema(m.ctx, m.view.ID, available[next].Value)
		return m.apply(view, err)
	}

	row, ok := m.rowAt(m.focus)
	if !ok {
		return m
	}
	options := m.view.Options[row]
	cur := 0
	for i, o := range options {
		if o.Value == m.view.Selection[row].Value {
			cur = i
			break
		}
	}
	for step := 1; step < len(options); step++ {
		i := ((cur+delta*step)%len(options) + len(options)) % len(options)
		if options[i].Disabled {
			continue
		}
		view, err := m.uc.ChangeSchema(m.ctx, m.view.ID, row, options[i].Value)
		return m.apply(view, err)
	}
	return m
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	switch {
	case m.focus == focusName, m.focus == focusPending:
		m.moveFocus(1)
		return m, nil

	case m.focus == focusAdd:
		view, _, err := m.uc.AddSchema(m.ctx, m.view.ID)
		return m.apply(view, err), nil

	case m.focus == m.saveFocus():
		m.submitting = true
		m.err = nil
		return m, m.submit()
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	ctx, uc, id := m.ctx, m.uc, m.view.ID
	return func() tea.Msg {
		result, err := uc.Submit(ctx, id)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m Model) settle(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	if msg.err != nil {
		if errors.Is(msg.err, model.ErrStaleSubmission) {
			return m, nil
		}
		// validation keeps the editor open with the message next to the name
		view, err := m.uc.Get(m.ctx, m.view.ID)
		if err == nil {
			m.view = view
		}
		if !errors.Is(msg.err, model.ErrEmptySegmentName) {
			m.err = msg.err
		}
		if !m.view.Open {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.result = msg.result
	if view, err := m.uc.Get(m.ctx, m.view.ID); err == nil {
		m.view = view
	}

	ttl := model.DefaultNotificationTTL
	if n := msg.result.Notification; n != nil {
		ttl = n.ExpiresAt.Sub(n.CreatedAt)
	}
	return m, tea.Tick(ttl, func(time.Time) tea.Msg { return dismissMsg{} })
}

func (m Model) close() (tea.Model, tea.Cmd) {
	if m.view.Open {
		view, err := m.uc.Close(m.ctx, m.view.ID)
		m = m.apply(view, err)
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) apply(view *model.EditorView, err error) Model {
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.view = view
	if m.nameInput.Value() != view.Name {
		m.nameInput.SetValue(view.Name)
	}
	if last := m.saveFocus(); m.focus > last {
		m.focus = last
	}
	return m
}

// View renders the editor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Save a Segment") + "\n\n")

	if m.result != nil {
		sb.WriteString(m.renderNotification(m.result.Notification) + "\n\n")
		sb.WriteString(m.styles.Help.Render("press any key to exit") + "\n")
		return sb.String()
	}

	sb.WriteString(m.styles.Caption.Render("Enter the name of the segment") + "\n")
	sb.WriteString(m.cursor(focusName) + m.nameInput.View() + "\n")
	if m.view.NameError != "" {
		sb.WriteString("  " + m.styles.Error.Render(m.view.NameError) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.styles.Caption.Render("Add Schema to segment") + "\n")
	pending := m.styles.Muted.Render("Add schema to segment")
	if m.view.Pending != nil {
		pending = m.view.Pending.Label
	}
	if len(m.view.Available) == 0 {
		pending = m.styles.Muted.Render("All schemas added")
	}
	sb.WriteString(m.cursor(focusPending) + m.selector(focusPending, pending) + "\n")
	sb.WriteString(m.cursor(focusAdd) + m.button(focusAdd, "+ Add New Schema") + "\n\n")

	// rows follow the add button, matching the focus order
	if len(m.view.Selection) == 0 {
		sb.WriteString("  " + m.styles.Muted.Render("No schemas selected.") + "\n")
	}
	for i, s := range m.view.Selection {
		focus := focusAdd + 1 + i
		sb.WriteString(fmt.Sprintf("%s%d. %s\n", m.cursor(focus), i+1, m.selector(focus, s.Label)))
	}
	sb.WriteString("\n")

	save := "Save Segment"
	if m.submitting {
		save = "Saving..."
	}
	sb.WriteString(m.cursor(m.saveFocus()) + m.button(m.saveFocus(), save) + "\n")

	if m.err != nil {
		sb.WriteString("\n" + m.styles.Error.Render(m.err.Error()) + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("tab: next • ←/→: change • enter: select • esc: close") + "\n")
	return sb.String()
}

func (m Model) renderNotification(n *model.Notification) string {
	if n == nil {
		return ""
	}
	text := n.Message
	if n.Cause != "" {
		text += ": " + n.Cause
	}
	if n.Severity == types.SeverityError {
		return m.styles.Error.Render("✘ " + text)
	}
	return m.styles.Success.Render("✔ " + text)
}

func (m Model) cursor(focus int) string {
	if m.focus == focus {
		return m.styles.Focused.Render("> ")
	}
	return "  "
}

func (m Model) selector(focus int, label string) string {
	if m.focus == focus {
		return m.styles.Focused.Render("◂ " + label + " ▸")
	}
	return m.styles.Blurred.Render(label)
}

func (m Model) button(focus int, label string) string {
	if m.focus == focus {
		return m.styles.Button.Render(label)
	}
	return m.styles.Focused.Render("[" + label + "]")
}
