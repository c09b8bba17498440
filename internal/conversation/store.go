package conversation

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Storage persists conversation snapshots by id. Implementations load
// and save whole transcripts; there are no partial updates at the
// storage layer.
type Storage interface {
	// Load returns the stored snapshot for a conversation, or ok=false
	// when none exists.
	Load(conversationID string) (data []byte, ok bool, err error)

	// Save writes a full snapshot for a conversation. It must be
	// idempotent.
	Save(conversationID string, data []byte) error

	// Delete removes any stored snapshot for a conversation.
	Delete(conversationID string) error
}

// DefaultGreeting seeds a fresh conversation when no greeting is configured.
const DefaultGreeting = "Hi! I can help you draft, correct, and summarize email. What would you like to do?"

// Store is an ordered, id-keyed collection of messages per conversation,
// hydrated from and persisted to durable storage.
//
// Messages are kept and rendered in strict append order; updates through
// ReconcileByID never change an existing message's position.
type Store struct {
	mu       sync.Mutex
	storage  Storage
	greeting string

	// transcripts holds the in-memory messages per conversation id.
	transcripts map[string][]Message
}

// NewStore creates a store backed by the given storage. An empty greeting
// falls back to DefaultGreeting.
func NewStore(storage Storage, greeting string) *Store {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &Store{
		storage:     storage,
		greeting:    greeting,
		transcripts: make(map[string][]Message),
	}
}

// Load hydrates a conversation from storage, seeding a greeting when no
// usable history exists. A corrupt snapshot is treated as absence, not
// as a fatal error.
func (s *Store) Load(conversationID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msgs, ok := s.transcripts[conversationID]; ok {
		return copyMessages(msgs), nil
	}

	data, ok, err := s.storage.Load(conversationID)
	if err != nil {
		return nil, err
	}
	if ok {
		var msgs []Message
		if err := json.Unmarshal(data, &msgs); err != nil {
			slog.Warn("discarding corrupt conversation snapshot",
				"conversation", conversationID, "error", err)
		} else if len(msgs) > 0 {
			s.transcripts[conversationID] = msgs
			return copyMessages(msgs), nil
		}
	}

	seeded := []Message{s.greetingMessage()}
	s.transcripts[conversationID] = seeded
	return copyMessages(seeded), nil
}

// Messages returns the current transcript for a conversation.
func (s *Store) Messages(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.transcripts[conversationID])
}

// Append adds a message at the end of the transcript. A duplicate id
// collapses into an in-place update of the existing message rather than
// a second entry.
func (s *Store) Append(conversationID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.transcripts[conversationID]
	for i := range msgs {
		if msgs[i].ID == msg.ID {
			msgs[i].Content = msg.Content
			if msg.SuggestedActions != nil {
				msgs[i].SuggestedActions = msg.SuggestedActions
			}
			return
		}
	}
	s.transcripts[conversationID] = append(msgs, msg)
}

// ReconcileByID merges a patch into the message with the given id,
// preserving fields the patch does not set. If no such message exists, a
// new one built from the patch is appended. This is the mechanism for
// both streaming updates (repeatedly patching content on the placeholder
// id) and late finalization (content plus suggested actions, once).
func (s *Store) ReconcileByID(conversationID, msgID string, patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.transcripts[conversationID]
	for i := range msgs {
		if msgs[i].ID != msgID {
			continue
		}
		if patch.Content != nil {
			msgs[i].Content = *patch.Content
		}
		if patch.SuggestedActions != nil {
			msgs[i].SuggestedActions = patch.SuggestedActions
		}
		return
	}
	s.transcripts[conversationID] = append(msgs, patch.build(msgID))
}

// Remove deletes the message with the given id, if present. Used to
// discard an in-flight placeholder after a transport failure.
func (s *Store) Remove(conversationID, msgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.transcripts[conversationID]
	for i := range msgs {
		if msgs[i].ID == msgID {
			s.transcripts[conversationID] = append(msgs[:i:i], msgs[i+1:]...)
			return
		}
	}
}

// Restore replaces the in-memory transcript wholesale. Used to revert to
// a pre-send snapshot when a turn fails.
func (s *Store) Restore(conversationID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[conversationID] = copyMessages(msgs)
}

// Persist writes the full transcript snapshot to storage. Called after
// every finalized turn, not after every streaming delta: in-flight
// content is not durable by design.
func (s *Store) Persist(conversationID string) error {
	s.mu.Lock()
	msgs := copyMessages(s.transcripts[conversationID])
	s.mu.Unlock()

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return err
	}
	return s.storage.Save(conversationID, data)
}

// NewConversation clears any persisted state for the conversation and
// reseeds a single greeting message.
func (s *Store) NewConversation(conversationID string) ([]Message, error) {
	s.mu.Lock()
	seeded := []Message{s.greetingMessage()}
	s.transcripts[conversationID] = seeded
	out := copyMessages(seeded)
	s.mu.Unlock()

	if err := s.storage.Delete(conversationID); err != nil {
		return nil, err
	}
	return out, s.Persist(conversationID)
}

func (s *Store) greetingMessage() Message {
	return Message{
		ID:        "greeting",
		Role:      RoleAssistant,
		Content:   s.greeting,
		Timestamp: time.Now().UTC(),
	}
}

func copyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
