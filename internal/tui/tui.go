// Package tui provides the Bubbletea-based terminal user interface for
// quill.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/assistant"
	"github.com/quillmail/quill/internal/conversation"
)

// Focus indicates which component receives key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusButtons
)

// Model is the main Bubbletea model for the quill TUI.
type Model struct {
	// Window dimensions
	width  int
	height int
	ready  bool

	// Components
	chatPanel ChatPanel
	inputLine InputLine
	buttonBar ButtonBar

	// Session driving the conversation
	session *assistant.Session

	// Event channel fed by session callbacks
	updates <-chan tea.Msg

	// UI state
	focus     Focus
	busy      bool
	errBanner string

	keys KeyBindings
}

// New creates a new TUI model over a session and its event channel.
func New(session *assistant.Session, updates <-chan tea.Msg) Model {
	input := NewInputLine()
	input.SetFocused(true)

	m := Model{
		chatPanel: NewChatPanel(),
		inputLine: input,
		buttonBar: NewButtonBar(session.QuickActions()),
		session:   session,
		updates:   updates,
		keys:      DefaultKeyBindings(),
	}
	m.applyTranscript(session.Messages())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	slog.Debug("tui.Init: starting", "conversation", m.session.ConversationID())
	return tea.Batch(
		m.inputLine.input.Cursor.BlinkCmd(),
		tickCmd(),
		waitForUpdate(m.updates),
	)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	brand := headerBrandStyle.Render("quill")
	info := headerInfoStyle.Render("conversation " + m.session.ConversationID())
	if m.busy {
		info += headerInfoStyle.Render(" · streaming")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, brand, info)

	var sections []string
	sections = append(sections, header)
	if m.errBanner != "" {
		sections = append(sections, errorBannerStyle.Width(m.width).Render(m.errBanner))
	}
	sections = append(sections, m.chatPanel.View())
	if bar := m.buttonBar.View(); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.inputLine.View())
	sections = append(sections, statusStyle.Render(m.helpLine()))

	return strings.Join(sections, "\n")
}

// helpLine summarizes the bindings for the focused component.
func (m Model) helpLine() string {
	if m.focus == FocusButtons {
		return "←/→ select · enter stage/send · esc input · ctrl+n new · ctrl+c quit"
	}
	if m.busy {
		return "streaming... · ctrl+n new conversation · ctrl+c quit"
	}
	return "enter send · tab buttons · ctrl+n new · ctrl+r insert reply · ctrl+c quit"
}

// applyTranscript pushes a transcript into the dependent components.
func (m *Model) applyTranscript(msgs []conversation.Message) {
	m.chatPanel.SetMessages(msgs)
	m.buttonBar.SetSuggestions(msgs)
	m.buttonBar.SetStagedKey(m.session.StagedKey())
	m.busy = m.session.Busy()
	m.chatPanel.SetStreaming(m.busy)
}

// layout recomputes component sizes from the window dimensions.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	header := 1
	banner := 0
	if m.errBanner != "" {
		banner = 1
	}
	bar := 1
	if m.buttonBar.actionState.Active {
		bar = 2
	}
	input := m.inputLine.ContentHeight()
	status := 1

	chatHeight := m.height - header - banner - bar - input - status
	if chatHeight < 3 {
		chatHeight = 3
	}

	m.chatPanel.SetSize(m.width, chatHeight)
	m.inputLine.SetSize(m.width)
	m.buttonBar.SetWidth(m.width)
}

// Run builds a session wired to the TUI event channel and runs the
// program. build receives the Events the session must publish through.
func Run(build func(assistant.Events) (*assistant.Session, error)) error {
	updates := make(chan tea.Msg, 64)
	push := func(msg tea.Msg) {
		// Never block a streaming turn on a slow UI; drop instead.
		select {
		case updates <- msg:
		default:
			slog.Debug("dropping tui update", "type", fmt.Sprintf("%T", msg))
		}
	}

	session, err := build(assistant.Events{
		Transcript:  func(msgs []conversation.Message) { push(transcriptMsg{Messages: msgs}) },
		ActionState: func(st action.State) { push(actionStateMsg{State: st}) },
		TurnError:   func(err error) { push(turnErrorMsg{Err: err}) },
		TurnDone:    func() { push(turnDoneMsg{}) },
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		New(session, updates),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
