package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/assistant"
	"github.com/quillmail/quill/internal/backend"
	"github.com/quillmail/quill/internal/config"
	"github.com/quillmail/quill/internal/conversation"
	"github.com/quillmail/quill/internal/id"
	"github.com/quillmail/quill/internal/paths"
)

// Flags shared by the commands that run conversation turns.
var (
	conversationFlag string
	emailFileFlag    string
	subjectFlag      string
	senderFlag       string
)

// addSessionFlags registers the shared turn flags on a command.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&conversationFlag, "conversation", "c", "", "conversation id (defaults to one derived from the email)")
	cmd.Flags().StringVar(&emailFileFlag, "email", "", "path to a file with the active email body")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "subject of the active email")
	cmd.Flags().StringVar(&senderFlag, "from", "", "sender of the active email")
}

// setupLogging installs the default slog handler using the configured
// level.
func setupLogging() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

// buildHost assembles the email host from the shared flags. Returns nil
// when no email context was given.
func buildHost() (*assistant.StaticHost, error) {
	if emailFileFlag == "" && subjectFlag == "" && senderFlag == "" {
		return nil, nil
	}

	email := assistant.Email{
		Subject: subjectFlag,
		Sender:  senderFlag,
	}
	if emailFileFlag != "" {
		body, err := os.ReadFile(emailFileFlag)
		if err != nil {
			return nil, err
		}
		email.Body = strings.TrimSpace(string(body))
	}
	return &assistant.StaticHost{Email: email}, nil
}

// resolveConversationID picks the transcript key: the explicit flag,
// then host email identity, then a stable default.
func resolveConversationID(host *assistant.StaticHost) string {
	if conversationFlag != "" {
		return conversationFlag
	}
	if host != nil && (host.Email.Subject != "" || host.Email.Sender != "") {
		return id.ForEmail(host.Email.Subject, host.Email.Sender)
	}
	return "default"
}

// buildSession wires up a complete session from config, storage, and
// the shared flags.
func buildSession(events assistant.Events) (*assistant.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	storage, err := conversation.NewFileStorage()
	if err != nil {
		return nil, err
	}

	actionsPath, err := paths.ActionsPath()
	if err != nil {
		return nil, err
	}
	registry, err := action.LoadRegistry(actionsPath)
	if err != nil {
		return nil, err
	}

	host, err := buildHost()
	if err != nil {
		return nil, err
	}

	sessionCfg := assistant.SessionConfig{
		ConversationID: resolveConversationID(host),
		Store:          conversation.NewStore(storage, cfg.Chat.Greeting),
		Streamer: backend.NewClient(
			cfg.Backend.Endpoint,
			cfg.Backend.Model,
			cfg.Backend.MaxTokens,
			cfg.Backend.Temperature,
		),
		Registry: registry,
		Events:   events,
	}
	if host != nil {
		sessionCfg.Host = host
	}
	return assistant.NewSession(sessionCfg)
}
