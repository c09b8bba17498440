// Package id provides utilities for generating message and conversation
// identifiers.
package id

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Message ids are zero-padded millisecond timestamps plus a disambiguating
// offset, so they sort lexically in creation order and a user turn never
// collides with the assistant placeholder created in the same millisecond.

// At returns a message id for the given creation time and offset.
func At(t time.Time, offset int64) string {
	return fmt.Sprintf("%013d", t.UnixMilli()+offset)
}

// Turn returns the ids for a user message and its assistant placeholder.
func Turn(t time.Time) (user, assistant string) {
	return At(t, 0), At(t, 1)
}

// QuickActionTurn returns the ids for a quick action's canned user prompt
// and its streaming assistant message. Keying by the action avoids id
// collisions between concurrent quick actions in one conversation, and
// makes repeat runs of the same action update in place rather than
// inserting a second prompt.
func QuickActionTurn(actionKey string) (user, assistant string) {
	return "qa-" + actionKey + "-prompt", "qa-" + actionKey + "-reply"
}

// Conversation returns a random conversation id, used when no host email
// identity is available.
func Conversation() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ForEmail derives a stable conversation id from host email identity.
func ForEmail(subject, sender string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(subject) + "\x00" + strings.TrimSpace(sender)))
	return hex.EncodeToString(sum[:6])
}
