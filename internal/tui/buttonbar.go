package tui

import (
	"strings"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/assistant"
	"github.com/quillmail/quill/internal/confirm"
	"github.com/quillmail/quill/internal/conversation"
)

// chipKind distinguishes the two button families sharing the bar.
type chipKind int

const (
	chipQuickAction chipKind = iota
	chipSuggested
)

// chip is one activatable button.
type chip struct {
	kind       chipKind
	actionKey  string // registry key for quick actions
	label      string
	payload    string // prompt or suggested action text
	gestureKey string // confirmer key for staged highlighting
}

// ButtonBar renders quick actions and model-suggested follow-ups as one
// focusable row of chips with double-press-to-confirm semantics.
type ButtonBar struct {
	chips    []chip
	selected int
	focused  bool
	width    int

	// actionState is rendered inline next to the action chips.
	actionState action.State

	// stagedKey highlights the chip awaiting its confirming press.
	stagedKey string
}

// NewButtonBar creates the bar with the configured quick actions.
func NewButtonBar(actions []action.QuickAction) ButtonBar {
	b := ButtonBar{}
	for _, a := range actions {
		b.chips = append(b.chips, chip{
			kind:       chipQuickAction,
			actionKey:  a.Key,
			label:      a.Label,
			payload:    a.Prompt,
			gestureKey: confirm.Key(assistant.KindQuickAction, a.Label, a.Prompt),
		})
	}
	return b
}

// SetWidth updates the component width.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetFocused sets the focus state.
func (b *ButtonBar) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused returns whether the bar is focused.
func (b *ButtonBar) IsFocused() bool {
	return b.focused
}

// SetSuggestions replaces the suggested-button chips with those attached
// to the last finalized assistant message.
func (b *ButtonBar) SetSuggestions(msgs []conversation.Message) {
	kept := b.chips[:0]
	for _, c := range b.chips {
		if c.kind == chipQuickAction {
			kept = append(kept, c)
		}
	}
	b.chips = kept

	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != conversation.RoleAssistant {
			continue
		}
		for _, sa := range msgs[i].SuggestedActions {
			b.chips = append(b.chips, chip{
				kind:       chipSuggested,
				label:      sa.Label,
				payload:    sa.Action,
				gestureKey: confirm.Key(assistant.KindSuggestedButton, sa.Label, sa.Action),
			})
		}
		break
	}

	if b.selected >= len(b.chips) {
		b.selected = 0
	}
}

// SetActionState updates the inline quick-action status.
func (b *ButtonBar) SetActionState(st action.State) {
	b.actionState = st
}

// SetStagedKey updates which chip is highlighted as staged.
func (b *ButtonBar) SetStagedKey(key string) {
	b.stagedKey = key
}

// MoveLeft selects the previous chip.
func (b *ButtonBar) MoveLeft() {
	if len(b.chips) == 0 {
		return
	}
	b.selected = (b.selected - 1 + len(b.chips)) % len(b.chips)
}

// MoveRight selects the next chip.
func (b *ButtonBar) MoveRight() {
	if len(b.chips) == 0 {
		return
	}
	b.selected = (b.selected + 1) % len(b.chips)
}

// Selected returns the currently selected chip, if any.
func (b *ButtonBar) Selected() (chip, bool) {
	if b.selected < 0 || b.selected >= len(b.chips) {
		return chip{}, false
	}
	return b.chips[b.selected], true
}

// View renders the chip row plus the inline action status.
func (b ButtonBar) View() string {
	if len(b.chips) == 0 {
		return ""
	}

	var parts []string
	for i, c := range b.chips {
		style := chipStyle
		switch {
		case c.gestureKey == b.stagedKey && b.stagedKey != "":
			style = chipStagedStyle
		case b.focused && i == b.selected:
			style = chipSelectedStyle
		}
		parts = append(parts, style.Render(c.label))
	}
	row := strings.Join(parts, " ")

	if status := b.statusLine(); status != "" {
		row += "\n" + status
	}
	return row
}

// statusLine renders the quick-action state inline, near its trigger,
// independent of the general chat error banner.
func (b ButtonBar) statusLine() string {
	st := b.actionState
	if !st.Active {
		return ""
	}
	switch st.Status {
	case action.StatusExtracting:
		return actionStatusStyle.Render(st.Key + ": reading email...")
	case action.StatusUsingTool:
		return actionStatusStyle.Render(st.Key + ": running tool...")
	case action.StatusStreaming:
		return actionStatusStyle.Render(st.Key + ": streaming reply...")
	case action.StatusComplete:
		return actionStatusStyle.Render(st.Key + ": done")
	case action.StatusError:
		return actionErrorStyle.Render(st.Key + ": " + st.Err)
	}
	return ""
}
