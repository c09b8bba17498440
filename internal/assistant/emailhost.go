package assistant

import "context"

// Email is a snapshot of the active email in the host mail client.
type Email struct {
	ID      string
	Subject string
	Sender  string
	Body    string
}

// EmailHost is the narrow capability the assistant needs from the host
// mail client. The core never touches the host platform directly;
// implementations are injected, which keeps turns deterministic under
// test.
type EmailHost interface {
	// ActiveEmail returns the email the user is currently reading or
	// composing.
	ActiveEmail(ctx context.Context) (Email, error)

	// InsertReply inserts text into the host's compose surface.
	InsertReply(ctx context.Context, body string) error
}

// ExternalTool is the opaque pre-stream step run by quick actions
// flagged uses_external_tool. Its output is appended to the action's
// canned prompt.
type ExternalTool interface {
	Run(ctx context.Context, email Email) (string, error)
}

// StaticHost is an EmailHost over a fixed email, used by the CLI (which
// has no live mail client) and by tests.
type StaticHost struct {
	Email Email

	// Inserted records bodies passed to InsertReply.
	Inserted []string
}

// ActiveEmail implements EmailHost.
func (h *StaticHost) ActiveEmail(ctx context.Context) (Email, error) {
	return h.Email, nil
}

// InsertReply implements EmailHost.
func (h *StaticHost) InsertReply(ctx context.Context, body string) error {
	h.Inserted = append(h.Inserted, body)
	return nil
}
