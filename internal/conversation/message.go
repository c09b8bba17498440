// Package conversation maintains ordered, persisted chat transcripts.
package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SuggestedAction is one model-suggested follow-up button attached to a
// finalized assistant message.
type SuggestedAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Message is one turn in a conversation.
//
// For an in-flight assistant message, Content holds the live-decoded
// partial text, never raw envelope JSON. SuggestedActions is attached
// exactly once, when the full envelope is parsed at finalization.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

// Patch describes a partial update applied through ReconcileByID.
// Nil fields leave the existing value untouched; Role and Timestamp are
// only consulted when the patch creates a new message.
type Patch struct {
	Role             Role
	Content          *string
	Timestamp        time.Time
	SuggestedActions []SuggestedAction
}

// build constructs a new message from a patch for the append path.
func (p Patch) build(msgID string) Message {
	m := Message{
		ID:        msgID,
		Role:      p.Role,
		Timestamp: p.Timestamp,
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.SuggestedActions != nil {
		m.SuggestedActions = p.SuggestedActions
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return m
}
