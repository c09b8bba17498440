package conversation

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// memStorage is an in-memory Storage for tests.
type memStorage struct {
	snapshots map[string][]byte
	saves     int
}

func newMemStorage() *memStorage {
	return &memStorage{snapshots: make(map[string][]byte)}
}

func (m *memStorage) Load(id string) ([]byte, bool, error) {
	data, ok := m.snapshots[id]
	return data, ok, nil
}

func (m *memStorage) Save(id string, data []byte) error {
	m.saves++
	m.snapshots[id] = data
	return nil
}

func (m *memStorage) Delete(id string) error {
	delete(m.snapshots, id)
	return nil
}

func TestStore_LoadSeedsGreeting(t *testing.T) {
	store := NewStore(newMemStorage(), "Welcome!")

	msgs, err := store.Load("conv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Role != RoleAssistant || msgs[0].Content != "Welcome!" {
		t.Errorf("greeting = %+v", msgs[0])
	}
}

func TestStore_EmptyGreetingFallsBack(t *testing.T) {
	store := NewStore(newMemStorage(), "")

	msgs, err := store.Load("conv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if msgs[0].Content != DefaultGreeting {
		t.Errorf("greeting = %q, want default", msgs[0].Content)
	}
}

func TestStore_CorruptSnapshotTreatedAsAbsent(t *testing.T) {
	storage := newMemStorage()
	storage.snapshots["conv"] = []byte("{not valid json")
	store := NewStore(storage, "Welcome!")

	msgs, err := store.Load("conv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "Welcome!" {
		t.Errorf("messages = %+v, want fresh greeting", msgs)
	}
}

func TestStore_AppendDuplicateIDCollapses(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	store.Append("conv", Message{ID: "m1", Role: RoleUser, Content: "first"})
	store.Append("conv", Message{ID: "m1", Role: RoleUser, Content: "second"})

	msgs := store.Messages("conv")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].Content != "second" {
		t.Errorf("content = %q, want %q", msgs[1].Content, "second")
	}
}

func TestStore_ReconcileByIDPreservesPosition(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	store.Append("conv", Message{ID: "a", Role: RoleAssistant, Content: "old"})
	store.Append("conv", Message{ID: "b", Role: RoleUser, Content: "later"})

	update := "new"
	store.ReconcileByID("conv", "a", Patch{Content: &update})

	msgs := store.Messages("conv")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[1].ID != "a" || msgs[1].Content != "new" {
		t.Errorf("message 1 = %+v, want updated in place", msgs[1])
	}
	if msgs[1].Role != RoleAssistant {
		t.Errorf("role changed to %q", msgs[1].Role)
	}
}

func TestStore_ReconcileByIDAppendsWhenMissing(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	content := "created"
	store.ReconcileByID("conv", "x", Patch{
		Role:      RoleUser,
		Content:   &content,
		Timestamp: time.Now(),
	})

	msgs := store.Messages("conv")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].ID != "x" || msgs[1].Content != "created" {
		t.Errorf("appended = %+v", msgs[1])
	}
}

func TestStore_ReconcileByIDUnsetFieldsUntouched(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	store.Append("conv", Message{
		ID: "a", Role: RoleAssistant, Content: "text",
		SuggestedActions: []SuggestedAction{{Label: "L", Action: "A"}},
	})

	// A patch without content or actions leaves both alone.
	store.ReconcileByID("conv", "a", Patch{})

	msgs := store.Messages("conv")
	if msgs[1].Content != "text" || len(msgs[1].SuggestedActions) != 1 {
		t.Errorf("message = %+v, want fields preserved", msgs[1])
	}
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	store.Append("conv", Message{ID: "a", Role: RoleUser})
	store.Append("conv", Message{ID: "b", Role: RoleAssistant})
	store.Remove("conv", "a")

	msgs := store.Messages("conv")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].ID != "b" {
		t.Errorf("remaining = %+v", msgs)
	}
}

func TestStore_RestoreRevertsToSnapshot(t *testing.T) {
	store := NewStore(newMemStorage(), "hi")
	store.Load("conv")

	snapshot := store.Messages("conv")
	store.Append("conv", Message{ID: "a", Role: RoleUser, Content: "doomed"})
	store.Restore("conv", snapshot)

	msgs := store.Messages("conv")
	if len(msgs) != 1 {
		t.Errorf("got %d messages after restore, want 1", len(msgs))
	}
}

func TestStore_PersistRoundTrip(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage, "hi")
	store.Load("conv")

	store.Append("conv", Message{
		ID: "m1", Role: RoleUser, Content: "hello", Timestamp: time.Now().UTC(),
	})
	store.Append("conv", Message{
		ID: "m2", Role: RoleAssistant, Content: "world",
		SuggestedActions: []SuggestedAction{{Label: "More", Action: "tell me more"}},
	})
	if err := store.Persist("conv"); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// A fresh store hydrates the same transcript from storage.
	reloaded := NewStore(storage, "hi")
	msgs, err := reloaded.Load("conv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[2].Content != "world" || len(msgs[2].SuggestedActions) != 1 {
		t.Errorf("reloaded = %+v", msgs[2])
	}
}

func TestStore_NewConversationReseeds(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage, "hi")
	store.Load("conv")
	store.Append("conv", Message{ID: "m1", Role: RoleUser, Content: "old"})
	store.Persist("conv")

	msgs, err := store.NewConversation("conv")
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Errorf("messages = %+v, want single greeting", msgs)
	}

	// The reseed is durable.
	reloaded := NewStore(storage, "other greeting")
	got, err := reloaded.Load("conv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Content != "hi" {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorageAt(dir)

	if _, ok, err := fs.Load("conv"); err != nil || ok {
		t.Fatalf("Load before save: ok=%v err=%v", ok, err)
	}

	if err := fs.Save("conv", []byte(`[{"id":"m1"}]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, ok, err := fs.Load("conv")
	if err != nil || !ok {
		t.Fatalf("Load after save: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"m1"}]` {
		t.Errorf("data = %s", data)
	}

	if err := fs.Delete("conv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := fs.Load("conv"); ok {
		t.Error("Load after delete: still present")
	}
	// Deleting an absent conversation is not an error.
	if err := fs.Delete("conv"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestFileStorage_SanitizesID(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorageAt(dir)

	if err := fs.Save("../escape/attempt", []byte("[]")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	name := entries[0].Name()
	if filepath.Dir(filepath.Join(dir, name)) != dir {
		t.Errorf("entry escaped dir: %s", name)
	}
	if name != "-escape-attempt.json" {
		t.Errorf("sanitized name = %q", name)
	}
}
