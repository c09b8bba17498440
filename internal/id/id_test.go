package id

import (
	"testing"
	"time"
)

func TestTurn_OrderedDistinctIDs(t *testing.T) {
	now := time.Now()
	user, assistant := Turn(now)

	if user == assistant {
		t.Error("user and assistant ids collide")
	}
	if user >= assistant {
		t.Errorf("ids not ordered: %s >= %s", user, assistant)
	}
	if len(user) != 13 || len(assistant) != 13 {
		t.Errorf("ids not zero-padded: %q, %q", user, assistant)
	}
}

func TestTurn_LexicalOrderAcrossTurns(t *testing.T) {
	t1 := time.UnixMilli(1_000_000)
	t2 := t1.Add(5 * time.Millisecond)

	_, a1 := Turn(t1)
	u2, _ := Turn(t2)
	if a1 >= u2 {
		t.Errorf("later turn does not sort after: %s >= %s", a1, u2)
	}
}

func TestQuickActionTurn_StablePerAction(t *testing.T) {
	u1, a1 := QuickActionTurn("summarize")
	u2, a2 := QuickActionTurn("summarize")
	if u1 != u2 || a1 != a2 {
		t.Error("repeat runs produced different ids")
	}

	u3, a3 := QuickActionTurn("correct")
	if u1 == u3 || a1 == a3 {
		t.Error("different actions share ids")
	}
}

func TestForEmail_StableAndDistinct(t *testing.T) {
	a := ForEmail("Q3 report", "ana@example.com")
	b := ForEmail("Q3 report", "ana@example.com")
	if a != b {
		t.Errorf("same identity produced %q and %q", a, b)
	}

	c := ForEmail("Q4 report", "ana@example.com")
	if a == c {
		t.Error("different subjects collide")
	}

	// Whitespace around identity fields does not change the id.
	d := ForEmail("  Q3 report ", " ana@example.com ")
	if a != d {
		t.Errorf("trimmed identity produced %q, want %q", d, a)
	}
}

func TestConversation_Random(t *testing.T) {
	a := Conversation()
	b := Conversation()
	if a == "" || a == b {
		t.Errorf("Conversation() = %q, %q", a, b)
	}
}
