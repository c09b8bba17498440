package paths

import (
	"path/filepath"
	"testing"
)

func TestQuillDirOverride(t *testing.T) {
	t.Setenv(EnvQuillDir, "/tmp/quill-test")

	base, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if base != "/tmp/quill-test" {
		t.Errorf("BaseDir = %q", base)
	}

	cfg, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if cfg != filepath.Join("/tmp/quill-test", "config", "config.toml") {
		t.Errorf("ConfigPath = %q", cfg)
	}

	convs, err := ConversationsDir()
	if err != nil {
		t.Fatalf("ConversationsDir: %v", err)
	}
	if convs != filepath.Join("/tmp/quill-test", "conversations") {
		t.Errorf("ConversationsDir = %q", convs)
	}
}

func TestDefaultsUnderHome(t *testing.T) {
	t.Setenv(EnvQuillDir, "")

	base, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if filepath.Base(base) != ".quill" {
		t.Errorf("BaseDir = %q, want ~/.quill", base)
	}

	actions, err := ActionsPath()
	if err != nil {
		t.Fatalf("ActionsPath: %v", err)
	}
	if filepath.Base(actions) != "actions.yaml" {
		t.Errorf("ActionsPath = %q", actions)
	}
}

func TestConversationPath(t *testing.T) {
	t.Setenv(EnvQuillDir, "/tmp/quill-test")

	p, err := ConversationPath("abc123")
	if err != nil {
		t.Fatalf("ConversationPath: %v", err)
	}
	if p != filepath.Join("/tmp/quill-test", "conversations", "abc123.json") {
		t.Errorf("ConversationPath = %q", p)
	}
}
