package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillmail/quill/internal/confirm"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.applyTranscript(m.session.Messages())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case transcriptMsg:
		m.applyTranscript(msg.Messages)
		return m, waitForUpdate(m.updates)

	case actionStateMsg:
		m.buttonBar.SetActionState(msg.State)
		m.layout()
		return m, waitForUpdate(m.updates)

	case turnErrorMsg:
		m.errBanner = msg.Err.Error()
		m.busy = m.session.Busy()
		m.chatPanel.SetStreaming(m.busy)
		m.layout()
		return m, tea.Batch(waitForUpdate(m.updates), clearErrorCmd())

	case turnDoneMsg:
		m.busy = m.session.Busy()
		m.chatPanel.SetStreaming(m.busy)
		return m, waitForUpdate(m.updates)

	case sendResultMsg:
		m.busy = m.session.Busy()
		m.chatPanel.SetStreaming(m.busy)
		if msg.Err != nil {
			m.errBanner = msg.Err.Error()
			m.layout()
			return m, clearErrorCmd()
		}
		return m, nil

	case newConvoResultMsg:
		if msg.Err != nil {
			m.errBanner = msg.Err.Error()
			m.layout()
			return m, clearErrorCmd()
		}
		m.applyTranscript(m.session.Messages())
		return m, nil

	case insertResultMsg:
		if msg.Err != nil {
			m.errBanner = msg.Err.Error()
			m.layout()
			return m, clearErrorCmd()
		}
		return m, nil

	case tickMsg:
		m.chatPanel.Tick()
		return m, tickCmd()

	case clearErrorMsg:
		m.errBanner = ""
		m.layout()
		return m, nil
	}

	if m.focus == FocusInput {
		cmd := m.inputLine.Update(msg)
		m.layout()
		return m, cmd
	}
	return m, nil
}

// handleKey routes key presses by focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewConvo):
		return m, newConvoCmd(m.session)

	case key.Matches(msg, m.keys.InsertReply):
		return m, insertReplyCmd(m.session)

	case key.Matches(msg, m.keys.Tab):
		if m.focus == FocusInput {
			m.focus = FocusButtons
			m.inputLine.SetFocused(false)
			m.buttonBar.SetFocused(true)
		} else {
			m.focus = FocusInput
			m.buttonBar.SetFocused(false)
			m.inputLine.SetFocused(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.chatPanel.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.chatPanel.PageDown()
		return m, nil
	}

	if m.focus == FocusButtons {
		return m.handleButtonKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleInputKey handles keys while the input line is focused.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.busy {
			return m, nil
		}
		text := m.inputLine.Value()
		if text == "" {
			return m, nil
		}
		m.inputLine.AddToHistory(text)
		m.inputLine.Clear()
		m.busy = true
		m.chatPanel.SetStreaming(true)
		m.layout()
		return m, sendCmd(m.session, text)

	case msg.String() == "up" && m.inputLine.ContentHeight() <= 1:
		m.inputLine.HistoryUp()
		return m, nil

	case msg.String() == "down" && m.inputLine.ContentHeight() <= 1:
		m.inputLine.HistoryDown()
		return m, nil
	}

	cmd := m.inputLine.Update(msg)
	m.layout()
	return m, cmd
}

// handleButtonKey handles keys while the button bar is focused. Enter
// runs the stage/commit gesture: the first press stages the button and
// populates the input, a repeated press on the same button sends it.
func (m Model) handleButtonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = FocusInput
		m.buttonBar.SetFocused(false)
		m.inputLine.SetFocused(true)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.buttonBar.MoveLeft()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.buttonBar.MoveRight()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.activateSelected()
	}
	return m, nil
}

// activateSelected stages or commits the selected chip.
func (m Model) activateSelected() (tea.Model, tea.Cmd) {
	c, ok := m.buttonBar.Selected()
	if !ok {
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	switch c.kind {
	case chipQuickAction:
		outcome, act, err := m.session.ActivateQuickAction(c.actionKey)
		if err != nil {
			m.errBanner = err.Error()
			m.layout()
			return m, clearErrorCmd()
		}
		if outcome == confirm.Committed {
			m.busy = true
			m.chatPanel.SetStreaming(true)
			cmd = runActionCmd(m.session, c.actionKey)
		} else {
			m.inputLine.SetValue(act.Prompt)
		}

	case chipSuggested:
		if m.session.ActivateSuggestedButton(c.label, c.payload) == confirm.Committed {
			m.busy = true
			m.chatPanel.SetStreaming(true)
			cmd = sendCmd(m.session, c.payload)
		} else {
			m.inputLine.SetValue(c.payload)
		}
	}

	m.buttonBar.SetStagedKey(m.session.StagedKey())
	m.layout()
	return m, cmd
}
