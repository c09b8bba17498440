package tui

import "testing"

func TestInputLine_HistoryNavigation(t *testing.T) {
	input := NewInputLine()

	input.AddToHistory("first")
	input.AddToHistory("second")
	input.AddToHistory("third")

	input.SetValue("draft in progress")

	if !input.HistoryUp() {
		t.Fatal("HistoryUp returned false")
	}
	if input.Value() != "third" {
		t.Errorf("Value = %q, want %q", input.Value(), "third")
	}

	input.HistoryUp()
	input.HistoryUp()
	if input.Value() != "first" {
		t.Errorf("Value = %q, want %q", input.Value(), "first")
	}
	// At the oldest entry, up is a no-op.
	if input.HistoryUp() {
		t.Error("HistoryUp past oldest entry returned true")
	}

	input.HistoryDown()
	input.HistoryDown()
	if input.Value() != "third" {
		t.Errorf("Value = %q, want %q", input.Value(), "third")
	}

	// Descending past the newest entry restores the saved draft.
	if !input.HistoryDown() {
		t.Fatal("HistoryDown returned false")
	}
	if input.Value() != "draft in progress" {
		t.Errorf("Value = %q, want saved draft", input.Value())
	}
}

func TestInputLine_HistorySkipsDuplicatesAndEmpty(t *testing.T) {
	input := NewInputLine()

	input.AddToHistory("")
	input.AddToHistory("hello")
	input.AddToHistory("hello")

	input.HistoryUp()
	if input.Value() != "hello" {
		t.Errorf("Value = %q", input.Value())
	}
	if input.HistoryUp() {
		t.Error("duplicate entry stored")
	}
}

func TestInputLine_HistoryDownWithoutBrowsing(t *testing.T) {
	input := NewInputLine()
	input.AddToHistory("x")
	if input.HistoryDown() {
		t.Error("HistoryDown outside history returned true")
	}
}

func TestInputLine_ClearResetsValue(t *testing.T) {
	input := NewInputLine()
	input.SetValue("something")
	input.Clear()
	if input.Value() != "" {
		t.Errorf("Value = %q after Clear", input.Value())
	}
}
