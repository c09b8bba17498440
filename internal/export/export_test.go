package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quillmail/quill/internal/conversation"
)

func sampleTranscript() []conversation.Message {
	return []conversation.Message{
		{
			ID: "greeting", Role: conversation.RoleAssistant,
			Content:   "Hi! How can I help?",
			Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: "m1", Role: conversation.RoleUser,
			Content:   "Summarize the **Q3 report** thread",
			Timestamp: time.Date(2026, 3, 1, 9, 1, 0, 0, time.UTC),
		},
		{
			ID: "m2", Role: conversation.RoleAssistant,
			Content: "- Revenue up\n- Costs flat",
			SuggestedActions: []conversation.SuggestedAction{
				{Label: "Draft reply", Action: "Draft a reply to this thread"},
			},
			Timestamp: time.Date(2026, 3, 1, 9, 1, 30, 0, time.UTC),
		},
	}
}

func TestRender(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := e.Render("Q3 thread", sampleTranscript())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "<title>Q3 thread</title>") {
		t.Error("title missing")
	}
	// Markdown converted, not escaped.
	if !strings.Contains(html, "<strong>Q3 report</strong>") {
		t.Error("bold markdown not rendered")
	}
	if !strings.Contains(html, "<li>Revenue up</li>") {
		t.Error("list markdown not rendered")
	}
	if !strings.Contains(html, "Draft reply") {
		t.Error("suggested action label missing")
	}
	if !strings.Contains(html, `class="turn user"`) || !strings.Contains(html, `class="turn assistant"`) {
		t.Error("role classes missing")
	}
}

func TestWriteFile(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "transcript.html")
	if err := e.WriteFile(path, "T", sampleTranscript()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("output is not an HTML document")
	}
}
