// Package paths provides a single source of truth for quill file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. QUILL_DIR env var sets the base directory (derives config/conversations)
//  2. Default behavior (~/.quill, ~/.config/quill) when no env vars are set
package paths

import (
	"os"
	"path/filepath"
)

// EnvQuillDir is the base directory override (e.g., /tmp/quill-test).
// When set, config and conversation paths derive from this directory.
const EnvQuillDir = "QUILL_DIR"

// BaseDir returns the quill base directory (~/.quill by default).
// Honors QUILL_DIR environment variable.
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvQuillDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quill"), nil
}

// ConfigDir returns the quill config directory (~/.config/quill by default).
// When QUILL_DIR is set, returns QUILL_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvQuillDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quill"), nil
}

// ConfigPath returns the path to the global quill config file.
// (~/.config/quill/config.toml by default, or QUILL_DIR/config/config.toml).
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ActionsPath returns the path to the quick-action definitions file.
// (~/.config/quill/actions.yaml by default, or QUILL_DIR/config/actions.yaml).
func ActionsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "actions.yaml"), nil
}

// ConversationsDir returns the conversations directory (~/.quill/conversations
// by default). When QUILL_DIR is set, returns QUILL_DIR/conversations.
func ConversationsDir() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "conversations"), nil
}

// ConversationPath returns the path to a specific conversation snapshot.
func ConversationPath(conversationID string) (string, error) {
	dir, err := ConversationsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, conversationID+".json"), nil
}
