// Package assistant coordinates a conversation turn end to end: it
// stages and commits button activations, issues the streaming request,
// applies live deltas to the transcript, finalizes the reply envelope,
// and persists the result.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/backend"
	"github.com/quillmail/quill/internal/confirm"
	"github.com/quillmail/quill/internal/conversation"
	"github.com/quillmail/quill/internal/envelope"
	"github.com/quillmail/quill/internal/id"
	"github.com/quillmail/quill/internal/stream"
)

// ErrTurnInFlight is returned when a send is attempted while a reply is
// still streaming. The UI disables the send affordance while busy, so
// hitting this indicates a caller bug rather than a user mistake.
var ErrTurnInFlight = errors.New("a reply is still streaming")

// Gesture key namespaces for the shared confirmer.
const (
	KindQuickAction     = "action"
	KindSuggestedButton = "button"
)

// Streamer issues one streaming request to the backend. Satisfied by
// *backend.Client; tests substitute fakes.
type Streamer interface {
	Stream(ctx context.Context, messages []backend.ChatMessage, emit func(stream.Event)) error
}

// Events carries UI-facing updates out of a session. Any field may be
// nil. Callbacks run on the goroutine driving the turn.
type Events struct {
	// Transcript fires whenever the visible message list changes.
	Transcript func([]conversation.Message)

	// ActionState fires on every quick-action state transition.
	ActionState func(action.State)

	// TurnError fires when a turn fails at the chat level (the general
	// error banner). Quick-action failures surface through ActionState
	// instead.
	TurnError func(error)

	// TurnDone fires after a turn is finalized and persisted.
	TurnDone func()
}

// Session owns one conversation and runs its turns.
type Session struct {
	conversationID string
	store          *conversation.Store
	streamer       Streamer
	machine        *action.Machine
	registry       *action.Registry
	confirmer      *confirm.Confirmer
	host           EmailHost
	tool           ExternalTool
	events         Events

	mu         sync.Mutex
	busy       bool
	inFlightID string
}

// SessionConfig collects the collaborators a session needs.
type SessionConfig struct {
	ConversationID string
	Store          *conversation.Store
	Streamer       Streamer
	Registry       *action.Registry
	Host           EmailHost
	Tool           ExternalTool
	Events         Events
}

// NewSession creates a session and hydrates its conversation.
func NewSession(cfg SessionConfig) (*Session, error) {
	s := &Session{
		conversationID: cfg.ConversationID,
		store:          cfg.Store,
		streamer:       cfg.Streamer,
		machine:        action.NewMachine(),
		registry:       cfg.Registry,
		confirmer:      &confirm.Confirmer{},
		host:           cfg.Host,
		tool:           cfg.Tool,
		events:         cfg.Events,
	}
	if s.events.ActionState != nil {
		s.machine.OnChange(s.events.ActionState)
	}
	if _, err := s.store.Load(s.conversationID); err != nil {
		return nil, err
	}
	return s, nil
}

// ConversationID returns the id of the transcript this session owns.
func (s *Session) ConversationID() string { return s.conversationID }

// Messages returns the current transcript.
func (s *Session) Messages() []conversation.Message {
	return s.store.Messages(s.conversationID)
}

// ActionState returns the current quick-action state.
func (s *Session) ActionState() action.State {
	return s.machine.Snapshot()
}

// QuickActions returns the configured quick actions in order.
func (s *Session) QuickActions() []action.QuickAction {
	return s.registry.Actions()
}

// Busy reports whether a reply is currently streaming. The UI must keep
// the send affordance disabled while true so a conversation never holds
// two placeholder messages.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// StagedKey exposes the currently staged gesture key for rendering
// "press again to send" affordances.
func (s *Session) StagedKey() string {
	return s.confirmer.StagedKey()
}

// ActivateQuickAction runs the stage/commit gesture for a quick action.
// On Staged the caller should populate the input with the action's
// prompt; on Committed it should call RunQuickAction.
func (s *Session) ActivateQuickAction(key string) (confirm.Outcome, action.QuickAction, error) {
	a, err := s.registry.Get(key)
	if err != nil {
		return confirm.Staged, action.QuickAction{}, err
	}
	return s.confirmer.Activate(confirm.Key(KindQuickAction, a.Label, a.Prompt)), a, nil
}

// ActivateSuggestedButton runs the stage/commit gesture for a
// model-suggested follow-up button. On Staged the caller should
// populate the input with the button's action text; on Committed it
// should send that text with SendMessage.
func (s *Session) ActivateSuggestedButton(label, actionText string) confirm.Outcome {
	return s.confirmer.Activate(confirm.Key(KindSuggestedButton, label, actionText))
}

// SendMessage runs one full chat turn: append the user message and an
// assistant placeholder, stream the reply into the placeholder, then
// finalize and persist. It blocks until the turn ends; callers that
// need responsiveness run it on their own goroutine.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.busy = true
	s.mu.Unlock()

	// Sending always disarms any staged button, whatever path staged it.
	s.confirmer.Clear()

	snapshot := s.store.Messages(s.conversationID)

	now := time.Now().UTC()
	userID, placeholderID := id.Turn(now)
	s.store.Append(s.conversationID, conversation.Message{
		ID:        userID,
		Role:      conversation.RoleUser,
		Content:   text,
		Timestamp: now,
	})
	s.store.Append(s.conversationID, conversation.Message{
		ID:        placeholderID,
		Role:      conversation.RoleAssistant,
		Timestamp: now.Add(time.Millisecond),
	})

	s.setInFlight(placeholderID)
	s.notifyTranscript()

	err := s.streamTurn(ctx, placeholderID, snapshot, nil)
	s.endTurn(placeholderID)
	return err
}

// RunQuickAction runs a quick action end to end: extract the email,
// optionally run the external tool, then (for LLM-backed actions)
// stream a reply into an action-keyed assistant message while mirroring
// progress into the action state machine.
func (s *Session) RunQuickAction(ctx context.Context, key string) error {
	a, err := s.registry.Get(key)
	if err != nil {
		return err
	}

	s.machine.Start(a.Key, a.UsesLLM, a.UsesExternalTool)

	var email Email
	if s.host != nil {
		email, err = s.host.ActiveEmail(ctx)
		if err != nil {
			s.machine.Fail("reading email: " + err.Error())
			return nil
		}
	}

	var toolOutput string
	if a.UsesExternalTool {
		if err := s.machine.UpdateStatus(action.StatusUsingTool, "running tool"); err != nil {
			return err
		}
		if s.tool != nil {
			toolOutput, err = s.tool.Run(ctx, email)
			if err != nil {
				s.machine.Fail("external tool: " + err.Error())
				return nil
			}
		}
	}

	if !a.UsesLLM {
		return s.machine.Complete()
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.machine.Fail(ErrTurnInFlight.Error())
		return nil
	}
	s.busy = true
	s.mu.Unlock()

	s.confirmer.Clear()
	snapshot := s.store.Messages(s.conversationID)

	prompt := buildActionPrompt(a.Prompt, email, toolOutput)
	userID, placeholderID := id.QuickActionTurn(a.Key)

	// The canned prompt reconciles by id, so repeating an action updates
	// its existing turn in place instead of inserting a second prompt.
	s.store.ReconcileByID(s.conversationID, userID, conversation.Patch{
		Role:    conversation.RoleUser,
		Content: &prompt,
	})
	// The reply restarts from scratch on every run.
	s.store.Remove(s.conversationID, placeholderID)
	s.store.Append(s.conversationID, conversation.Message{
		ID:        placeholderID,
		Role:      conversation.RoleAssistant,
		Timestamp: time.Now().UTC(),
	})

	s.setInFlight(placeholderID)
	s.notifyTranscript()

	err = s.streamTurn(ctx, placeholderID, snapshot, s.machine)
	s.endTurn(placeholderID)
	return err
}

// NewConversation abandons any in-flight stream, clears persisted state
// for this conversation, and reseeds a single greeting message. Deltas
// from a stream that was still open keep arriving but no longer match
// the in-flight message id, so they are ignored rather than aborted.
func (s *Session) NewConversation() error {
	s.mu.Lock()
	s.busy = false
	s.inFlightID = ""
	s.mu.Unlock()

	s.confirmer.Clear()
	if _, err := s.store.NewConversation(s.conversationID); err != nil {
		return err
	}
	s.notifyTranscript()
	return nil
}

// InsertLastReply pushes the most recent finalized assistant message
// into the host's compose surface.
func (s *Session) InsertLastReply(ctx context.Context) error {
	if s.host == nil {
		return errors.New("no email host configured")
	}
	msgs := s.store.Messages(s.conversationID)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == conversation.RoleAssistant && msgs[i].Content != "" {
			return s.host.InsertReply(ctx, msgs[i].Content)
		}
	}
	return errors.New("no assistant reply to insert")
}

// streamTurn drives one streaming request into the placeholder message.
// machine is non-nil on the quick-action path, where progress is
// mirrored into the action state and failures render inline instead of
// through the chat error banner.
func (s *Session) streamTurn(ctx context.Context, placeholderID string, snapshot []conversation.Message, machine *action.Machine) error {
	history := s.backendHistory(placeholderID)

	var accumulated string
	failed := false

	err := s.streamer.Stream(ctx, history, func(ev stream.Event) {
		// A stream that outlived its conversation keeps arriving; drop
		// its events by id instead of tearing down the network read.
		if !s.isInFlight(placeholderID) {
			return
		}

		switch ev.Type {
		case stream.EventChunk:
			accumulated += ev.Delta
			live := envelope.LiveText(accumulated)
			s.store.ReconcileByID(s.conversationID, placeholderID, conversation.Patch{Content: &live})
			if machine != nil {
				if err := machine.UpdateStreamedContent(live); err != nil {
					slog.Debug("action state update rejected", "error", err)
				}
			}
			s.notifyTranscript()

		case stream.EventDone:
			if ev.FullText != "" {
				accumulated = ev.FullText
			}
			env := envelope.Finalize(accumulated)
			s.store.ReconcileByID(s.conversationID, placeholderID, conversation.Patch{
				Content:          &env.Content,
				SuggestedActions: env.SuggestedActions,
			})
			if err := s.store.Persist(s.conversationID); err != nil {
				slog.Error("persisting conversation", "conversation", s.conversationID, "error", err)
			}
			if machine != nil {
				if err := machine.Complete(); err != nil {
					slog.Debug("action completion rejected", "error", err)
				}
			}
			s.notifyTranscript()
			if s.events.TurnDone != nil {
				s.events.TurnDone()
			}

		case stream.EventError:
			failed = true
			s.failTurn(placeholderID, snapshot, machine, errors.New(ev.Error))
		}
	})

	if err != nil && !failed && s.isInFlight(placeholderID) {
		s.failTurn(placeholderID, snapshot, machine, err)
	}
	return nil
}

// failTurn reverts the transcript to its pre-send state so it never
// keeps a permanently empty assistant turn, then routes the error to
// the banner or the inline action state.
func (s *Session) failTurn(placeholderID string, snapshot []conversation.Message, machine *action.Machine, err error) {
	slog.Warn("turn failed", "conversation", s.conversationID, "message", placeholderID, "error", err)
	s.store.Restore(s.conversationID, snapshot)
	s.notifyTranscript()
	if machine != nil {
		machine.Fail(err.Error())
		return
	}
	if s.events.TurnError != nil {
		s.events.TurnError(err)
	}
}

// backendHistory maps the transcript, minus the in-flight placeholder,
// to the wire format.
func (s *Session) backendHistory(placeholderID string) []backend.ChatMessage {
	msgs := s.store.Messages(s.conversationID)
	out := make([]backend.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == placeholderID {
			continue
		}
		out = append(out, backend.ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

func (s *Session) setInFlight(msgID string) {
	s.mu.Lock()
	s.inFlightID = msgID
	s.mu.Unlock()
}

func (s *Session) isInFlight(msgID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlightID == msgID
}

// endTurn releases the busy flag if this turn still owns it.
func (s *Session) endTurn(placeholderID string) {
	s.mu.Lock()
	if s.inFlightID == placeholderID {
		s.inFlightID = ""
		s.busy = false
	}
	s.mu.Unlock()
}

func (s *Session) notifyTranscript() {
	if s.events.Transcript != nil {
		s.events.Transcript(s.store.Messages(s.conversationID))
	}
}

// buildActionPrompt joins the canned prompt with the email body and any
// external-tool output.
func buildActionPrompt(prompt string, email Email, toolOutput string) string {
	var b strings.Builder
	b.WriteString(prompt)
	if email.Body != "" {
		b.WriteString("\n\n---\nSubject: ")
		b.WriteString(email.Subject)
		b.WriteString("\nFrom: ")
		b.WriteString(email.Sender)
		b.WriteString("\n\n")
		b.WriteString(email.Body)
	}
	if toolOutput != "" {
		b.WriteString("\n\n---\nTool output:\n")
		b.WriteString(toolOutput)
	}
	return b.String()
}
