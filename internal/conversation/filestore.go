package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillmail/quill/internal/paths"
)

// FileStorage persists conversation snapshots as JSON files, one record
// per conversation id, under the quill conversations directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates file-backed storage rooted at the default
// conversations directory.
func NewFileStorage() (*FileStorage, error) {
	dir, err := paths.ConversationsDir()
	if err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

// NewFileStorageAt creates file-backed storage rooted at dir.
func NewFileStorageAt(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Load implements Storage.
func (f *FileStorage) Load(conversationID string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(conversationID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read conversation: %w", err)
	}
	return data, true, nil
}

// Save implements Storage. The snapshot is written to a temp file and
// renamed into place for atomicity.
func (f *FileStorage) Save(conversationID string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("create conversations dir: %w", err)
	}

	path := f.path(conversationID)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Delete implements Storage.
func (f *FileStorage) Delete(conversationID string) error {
	err := os.Remove(f.path(conversationID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func (f *FileStorage) path(conversationID string) string {
	return filepath.Join(f.dir, sanitizeID(conversationID)+".json")
}

// sanitizeID maps a conversation id to a safe file name. Ids derived
// from email identity are already hex, but generated fallbacks and
// caller-supplied ids must not escape the conversations directory.
func sanitizeID(conversationID string) string {
	var b strings.Builder
	for _, r := range conversationID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		s = "default"
	}
	const maxLen = 128
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
