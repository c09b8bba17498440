package action

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		actions []QuickAction
		wantErr error
	}{
		{
			name:    "valid defaults",
			actions: DefaultActions(),
			wantErr: nil,
		},
		{
			name:    "empty key",
			actions: []QuickAction{{Label: "X", Prompt: "p", UsesLLM: true}},
			wantErr: ErrEmptyActionKey,
		},
		{
			name: "duplicate key",
			actions: []QuickAction{
				{Key: "a", Prompt: "p", UsesLLM: true},
				{Key: "a", Prompt: "q", UsesLLM: true},
			},
			wantErr: ErrDuplicateAction,
		},
		{
			name:    "llm action without prompt",
			actions: []QuickAction{{Key: "a", UsesLLM: true}},
			wantErr: ErrMissingPrompt,
		},
		{
			name:    "non-llm action without prompt is fine",
			actions: []QuickAction{{Key: "a", Label: "A"}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.actions)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Get(t *testing.T) {
	r, err := NewRegistry(DefaultActions())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	a, err := r.Get("summarize")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Key != "summarize" || !a.UsesLLM {
		t.Errorf("action = %+v", a)
	}

	if _, err := r.Get("nope"); !errors.Is(err, ErrUnknownActionKey) {
		t.Errorf("Get(nope) = %v, want ErrUnknownActionKey", err)
	}
}

func TestLoadRegistry_MissingFileYieldsDefaults(t *testing.T) {
	r, err := LoadRegistry(filepath.Join(t.TempDir(), "actions.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(r.Actions()) != len(DefaultActions()) {
		t.Errorf("got %d actions, want defaults", len(r.Actions()))
	}
}

func TestLoadRegistry_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	content := `actions:
  - key: shorten
    label: Shorten
    prompt: Make this email shorter.
    uses_llm: true
  - key: archive
    label: Archive
    uses_external_tool: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	actions := r.Actions()
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(actions))
	}
	if actions[0].Key != "shorten" || !actions[0].UsesLLM {
		t.Errorf("action 0 = %+v", actions[0])
	}
	if actions[1].Key != "archive" || !actions[1].UsesExternalTool || actions[1].UsesLLM {
		t.Errorf("action 1 = %+v", actions[1])
	}
}

func TestLoadRegistry_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	if err := os.WriteFile(path, []byte("actions: [pancakes"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Error("LoadRegistry accepted malformed YAML")
	}
}
