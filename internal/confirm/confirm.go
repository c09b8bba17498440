// Package confirm implements the generic double-click-to-confirm
// gesture shared by predefined quick actions and model-suggested
// follow-up buttons: the first activation stages an action, a repeated
// identical activation commits it.
package confirm

import "sync"

// Outcome is the result of an activation.
type Outcome int

const (
	// Staged means the activation armed the action without sending.
	Staged Outcome = iota
	// Committed means the activation matched the staged action and the
	// caller should send it.
	Committed
)

// Key builds a gesture key from a button's kind, label, and payload.
// Including the payload keeps two buttons with the same visible label
// but different payloads from confirming each other; the kind namespace
// keeps a quick action and a suggested button distinct even with equal
// text. A single Confirmer is shared across both button kinds, so
// staging either one replaces the other: the most recently staged
// interaction is the only committable one.
func Key(kind, label, payload string) string {
	return kind + "\x00" + label + "\x00" + payload
}

// Confirmer holds the identity of the last staged-but-uncommitted
// activation. The zero value is ready to use.
type Confirmer struct {
	mu        sync.Mutex
	stagedKey string
}

// Activate records an activation of key. A repeat of the currently
// staged key commits and clears the stage; anything else stages key.
func (c *Confirmer) Activate(key string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key != "" && key == c.stagedKey {
		c.stagedKey = ""
		return Committed
	}
	c.stagedKey = key
	return Staged
}

// Clear drops any staged activation. Every successful message send
// calls this, so a stale stage from a previous turn can never be
// committed by an unrelated click.
func (c *Confirmer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stagedKey = ""
}

// StagedKey returns the currently staged key, or "" when nothing is
// staged.
func (c *Confirmer) StagedKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stagedKey
}
