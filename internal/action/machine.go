// Package action tracks the lifecycle of quick actions: predefined,
// parameterized prompts the user triggers with one click instead of
// typing.
package action

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle stage of a quick action.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusExtracting Status = "extracting"
	StatusUsingTool  Status = "using_external_tool"
	StatusStreaming  Status = "streaming"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// DefaultResetDelay is the grace period after a terminal state before
// the machine returns to idle.
const DefaultResetDelay = 3 * time.Second

// ErrInvalidTransition is returned for status changes the lifecycle
// does not allow.
var ErrInvalidTransition = errors.New("invalid action state transition")

// State is a snapshot of the in-progress quick action, if any.
// It is process-local and never persisted.
type State struct {
	Active           bool
	Key              string
	Status           Status
	StatusMessage    string
	StreamedContent  string
	UsesLLM          bool
	UsesExternalTool bool
	Err              string
}

// Machine is an explicit state machine for the quick-action lifecycle:
//
//	idle → extracting → [using_external_tool →] streaming → {complete | error}
//
// Terminal states return to idle after a grace period; that reset is a
// no-op if another action has started in the interim.
type Machine struct {
	mu         sync.Mutex
	state      State
	gen        uint64
	resetDelay time.Duration

	// onChange, when set, observes every state snapshot after a
	// mutation. Called without the lock held.
	onChange func(State)
}

// NewMachine creates an idle machine with the default reset delay.
func NewMachine() *Machine {
	return &Machine{
		state:      State{Status: StatusIdle},
		resetDelay: DefaultResetDelay,
	}
}

// SetResetDelay overrides the terminal-state grace period.
func (m *Machine) SetResetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetDelay = d
}

// OnChange registers a state observer.
func (m *Machine) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins a new action, resetting all transient fields. Starting is
// always allowed: a new action preempts whatever came before it.
func (m *Machine) Start(key string, usesLLM, usesExternalTool bool) {
	m.mu.Lock()
	m.gen++
	m.state = State{
		Active:           true,
		Key:              key,
		Status:           StatusExtracting,
		UsesLLM:          usesLLM,
		UsesExternalTool: usesExternalTool,
	}
	m.notifyLocked()
}

// UpdateStatus moves the action to the given intermediate status.
func (m *Machine) UpdateStatus(status Status, message string) error {
	m.mu.Lock()

	if !m.state.Active || m.state.Status == StatusComplete || m.state.Status == StatusError {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s while not active", ErrInvalidTransition, status)
	}

	switch status {
	case StatusUsingTool:
		// Only reachable when the action declared an external tool.
		if !m.state.UsesExternalTool || m.state.Status != StatusExtracting {
			m.mu.Unlock()
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Status, status)
		}
	case StatusStreaming:
		if m.state.Status != StatusExtracting && m.state.Status != StatusUsingTool {
			m.mu.Unlock()
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Status, status)
		}
	default:
		m.mu.Unlock()
		return fmt.Errorf("%w: UpdateStatus(%s)", ErrInvalidTransition, status)
	}

	m.state.Status = status
	m.state.StatusMessage = message
	m.notifyLocked()
	return nil
}

// UpdateStreamedContent records the latest accumulated reply text. Each
// call overwrites the previous value: callers already carry the full
// accumulated text, not a delta.
func (m *Machine) UpdateStreamedContent(content string) error {
	m.mu.Lock()

	if !m.state.Active || m.state.Status == StatusComplete || m.state.Status == StatusError {
		m.mu.Unlock()
		return fmt.Errorf("%w: streamed content while not active", ErrInvalidTransition)
	}
	m.state.Status = StatusStreaming
	m.state.StreamedContent = content
	m.notifyLocked()
	return nil
}

// Complete marks the action successful and schedules the idle reset.
func (m *Machine) Complete() error {
	m.mu.Lock()

	if !m.state.Active || m.state.Status == StatusComplete || m.state.Status == StatusError {
		m.mu.Unlock()
		return fmt.Errorf("%w: complete while not active", ErrInvalidTransition)
	}
	m.state.Status = StatusComplete
	m.state.StatusMessage = ""
	m.scheduleResetLocked()
	m.notifyLocked()
	return nil
}

// Fail marks the action failed, capturing the message for inline
// display near the action trigger, and schedules the idle reset.
func (m *Machine) Fail(message string) {
	m.mu.Lock()

	if !m.state.Active {
		m.mu.Unlock()
		return
	}
	m.state.Status = StatusError
	m.state.Err = message
	m.scheduleResetLocked()
	m.notifyLocked()
}

// Reset returns the machine to idle. It is a no-op unless gen still
// identifies the action that scheduled it, so a reset never clobbers an
// action the user restarted in the interim.
func (m *Machine) Reset(gen uint64) {
	m.mu.Lock()

	if m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.state = State{Status: StatusIdle}
	m.notifyLocked()
}

// Generation identifies the current action instance for Reset guards.
func (m *Machine) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// scheduleResetLocked arms the grace-period timer. Must be called with
// mu held.
func (m *Machine) scheduleResetLocked() {
	gen := m.gen
	time.AfterFunc(m.resetDelay, func() { m.Reset(gen) })
}

// notifyLocked releases the lock and invokes the observer.
func (m *Machine) notifyLocked() {
	fn := m.onChange
	st := m.state
	m.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}
