package action

import (
	"errors"
	"testing"
	"time"
)

func TestMachine_Lifecycle(t *testing.T) {
	m := NewMachine()

	if st := m.Snapshot(); st.Active || st.Status != StatusIdle {
		t.Fatalf("initial state = %+v, want idle", st)
	}

	m.Start("summarize", true, false)
	st := m.Snapshot()
	if !st.Active || st.Status != StatusExtracting || st.Key != "summarize" {
		t.Fatalf("after Start = %+v", st)
	}

	if err := m.UpdateStatus(StatusStreaming, "streaming reply"); err != nil {
		t.Fatalf("UpdateStatus(streaming): %v", err)
	}
	if err := m.UpdateStreamedContent("partial text"); err != nil {
		t.Fatalf("UpdateStreamedContent: %v", err)
	}
	if st := m.Snapshot(); st.StreamedContent != "partial text" {
		t.Errorf("StreamedContent = %q", st.StreamedContent)
	}

	if err := m.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if st := m.Snapshot(); st.Status != StatusComplete {
		t.Errorf("after Complete = %+v", st)
	}
}

func TestMachine_ToolPhaseRequiresDeclaration(t *testing.T) {
	m := NewMachine()

	m.Start("summarize", true, false)
	err := m.UpdateStatus(StatusUsingTool, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateStatus(using_external_tool) without declaration = %v, want ErrInvalidTransition", err)
	}

	m.Start("extract-tasks", true, true)
	if err := m.UpdateStatus(StatusUsingTool, "running tool"); err != nil {
		t.Errorf("UpdateStatus(using_external_tool) with declaration: %v", err)
	}
	if err := m.UpdateStatus(StatusStreaming, ""); err != nil {
		t.Errorf("UpdateStatus(streaming) after tool: %v", err)
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := NewMachine()

	// Nothing is updatable while idle.
	if err := m.UpdateStatus(StatusStreaming, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateStatus while idle = %v", err)
	}
	if err := m.UpdateStreamedContent("x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateStreamedContent while idle = %v", err)
	}
	if err := m.Complete(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete while idle = %v", err)
	}

	// Terminal states accept no further updates.
	m.Start("correct", true, false)
	m.Fail("boom")
	if err := m.UpdateStatus(StatusStreaming, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateStatus after failure = %v", err)
	}
	if err := m.Complete(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete after failure = %v", err)
	}
}

func TestMachine_FailCapturesMessage(t *testing.T) {
	m := NewMachine()
	m.Start("correct", true, false)
	m.Fail("no active email")

	st := m.Snapshot()
	if st.Status != StatusError || st.Err != "no active email" {
		t.Errorf("state = %+v", st)
	}
}

func TestMachine_AutoResetAfterTerminal(t *testing.T) {
	m := NewMachine()
	m.SetResetDelay(10 * time.Millisecond)

	m.Start("correct", true, false)
	if err := m.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if st := m.Snapshot(); !st.Active && st.Status == StatusIdle {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("machine never reset: %+v", m.Snapshot())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestMachine_ResetSkippedWhenNewActionStarted(t *testing.T) {
	m := NewMachine()
	m.SetResetDelay(10 * time.Millisecond)

	m.Start("correct", true, false)
	if err := m.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// A second action started before the grace period elapses must not be
	// clobbered by the first action's reset.
	m.Start("summarize", true, false)

	time.Sleep(50 * time.Millisecond)
	st := m.Snapshot()
	if !st.Active || st.Key != "summarize" || st.Status != StatusExtracting {
		t.Errorf("state = %+v, want second action untouched", st)
	}
}

func TestMachine_StaleResetIsNoOp(t *testing.T) {
	m := NewMachine()

	m.Start("correct", true, false)
	stale := m.Generation()
	m.Start("summarize", true, false)

	m.Reset(stale)
	if st := m.Snapshot(); !st.Active || st.Key != "summarize" {
		t.Errorf("state = %+v, stale reset should be ignored", st)
	}
}

func TestMachine_OnChangeObservesTransitions(t *testing.T) {
	m := NewMachine()

	var seen []Status
	m.OnChange(func(st State) { seen = append(seen, st.Status) })

	m.Start("correct", true, false)
	m.UpdateStatus(StatusStreaming, "")
	m.Complete()

	want := []Status{StatusExtracting, StatusStreaming, StatusComplete}
	if len(seen) != len(want) {
		t.Fatalf("observed %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observed %v, want %v", seen, want)
			break
		}
	}
}
