package action

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrEmptyActionKey   = errors.New("action key cannot be empty")
	ErrDuplicateAction  = errors.New("duplicate action key")
	ErrMissingPrompt    = errors.New("action using the assistant must define a prompt")
	ErrUnknownActionKey = errors.New("unknown action key")
)

// QuickAction is one predefined prompt template the user can trigger
// with a single (double-click confirmed) activation.
type QuickAction struct {
	// Key uniquely identifies the action.
	Key string `yaml:"key"`

	// Label is the button text shown in the UI.
	Label string `yaml:"label"`

	// Prompt is the canned instruction sent as the user turn. The
	// current email body is appended during the extracting phase.
	Prompt string `yaml:"prompt"`

	// UsesLLM marks actions whose result comes from a streamed reply.
	UsesLLM bool `yaml:"uses_llm"`

	// UsesExternalTool marks actions that pass through the
	// using_external_tool phase before streaming.
	UsesExternalTool bool `yaml:"uses_external_tool"`
}

// Registry is the ordered set of configured quick actions.
type Registry struct {
	actions []QuickAction
	byKey   map[string]QuickAction
}

// DefaultActions returns the built-in quick actions used when no
// actions.yaml is present.
func DefaultActions() []QuickAction {
	return []QuickAction{
		{
			Key:     "correct",
			Label:   "Correct",
			Prompt:  "Correct the spelling and grammar of this email. Keep the tone and meaning unchanged.",
			UsesLLM: true,
		},
		{
			Key:     "summarize",
			Label:   "Summarize",
			Prompt:  "Summarize this email in a few short bullet points.",
			UsesLLM: true,
		},
		{
			Key:     "reply",
			Label:   "Draft reply",
			Prompt:  "Draft a polite, concise reply to this email.",
			UsesLLM: true,
		},
		{
			Key:              "extract-tasks",
			Label:            "Extract tasks",
			Prompt:           "List the action items in this email, one per line.",
			UsesLLM:          true,
			UsesExternalTool: true,
		},
	}
}

// LoadRegistry reads quick-action definitions from a YAML file. A
// missing file yields the built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(DefaultActions())
		}
		return nil, fmt.Errorf("read actions file: %w", err)
	}

	var file struct {
		Actions []QuickAction `yaml:"actions"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse actions file: %w", err)
	}
	if len(file.Actions) == 0 {
		return NewRegistry(DefaultActions())
	}
	return NewRegistry(file.Actions)
}

// NewRegistry validates and indexes a set of quick actions.
func NewRegistry(actions []QuickAction) (*Registry, error) {
	byKey := make(map[string]QuickAction, len(actions))
	for _, a := range actions {
		if a.Key == "" {
			return nil, ErrEmptyActionKey
		}
		if _, exists := byKey[a.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAction, a.Key)
		}
		if a.UsesLLM && a.Prompt == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrompt, a.Key)
		}
		byKey[a.Key] = a
	}
	return &Registry{actions: actions, byKey: byKey}, nil
}

// Actions returns all actions in definition order.
func (r *Registry) Actions() []QuickAction {
	out := make([]QuickAction, len(r.actions))
	copy(out, r.actions)
	return out
}

// Get returns the action for a key.
func (r *Registry) Get(key string) (QuickAction, error) {
	a, ok := r.byKey[key]
	if !ok {
		return QuickAction{}, fmt.Errorf("%w: %s", ErrUnknownActionKey, key)
	}
	return a, nil
}
