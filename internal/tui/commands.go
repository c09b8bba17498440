package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillmail/quill/internal/assistant"
)

// errorDisplayDuration is how long the error banner stays visible.
const errorDisplayDuration = 5 * time.Second

// waitForUpdate returns a command that delivers the next session event.
// It is re-issued after every delivery so the channel keeps draining.
func waitForUpdate(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// sendCmd runs a chat turn on its own goroutine; live updates arrive
// through the session event channel.
func sendCmd(session *assistant.Session, text string) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{Err: session.SendMessage(context.Background(), text)}
	}
}

// runActionCmd runs a committed quick action.
func runActionCmd(session *assistant.Session, key string) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{Err: session.RunQuickAction(context.Background(), key)}
	}
}

// newConvoCmd clears the conversation and reseeds the greeting.
func newConvoCmd(session *assistant.Session) tea.Cmd {
	return func() tea.Msg {
		return newConvoResultMsg{Err: session.NewConversation()}
	}
}

// insertReplyCmd pushes the last reply into the email host.
func insertReplyCmd(session *assistant.Session) tea.Cmd {
	return func() tea.Msg {
		return insertResultMsg{Err: session.InsertLastReply(context.Background())}
	}
}

// tickCmd drives the spinner while a reply is streaming.
func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// clearErrorCmd clears the banner after errorDisplayDuration.
func clearErrorCmd() tea.Cmd {
	return tea.Tick(errorDisplayDuration, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
