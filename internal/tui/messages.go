package tui

import (
	"time"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/conversation"
)

// transcriptMsg carries an updated transcript from the session.
type transcriptMsg struct {
	Messages []conversation.Message
}

// actionStateMsg carries a quick-action state transition.
type actionStateMsg struct {
	State action.State
}

// turnErrorMsg carries a chat-level turn failure for the error banner.
type turnErrorMsg struct {
	Err error
}

// turnDoneMsg signals that a turn finalized and persisted.
type turnDoneMsg struct{}

// sendResultMsg is the result of a send or quick-action goroutine.
type sendResultMsg struct {
	Err error
}

// newConvoResultMsg is the result of starting a new conversation.
type newConvoResultMsg struct {
	Err error
}

// insertResultMsg is the result of inserting a reply into the host.
type insertResultMsg struct {
	Err error
}

// tickMsg drives the streaming spinner animation.
type tickMsg time.Time

// clearErrorMsg clears the error banner after a timeout.
type clearErrorMsg struct{}
