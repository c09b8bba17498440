package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/config"
	"github.com/quillmail/quill/internal/conversation"
	"github.com/quillmail/quill/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a conversation transcript as HTML",
	Long:  "Render the stored transcript, with assistant Markdown converted to HTML, into a standalone page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		storage, err := conversation.NewFileStorage()
		if err != nil {
			return err
		}

		host, err := buildHost()
		if err != nil {
			return err
		}
		convID := resolveConversationID(host)

		store := conversation.NewStore(storage, cfg.Chat.Greeting)
		msgs, err := store.Load(convID)
		if err != nil {
			return err
		}

		out := exportOutput
		if out == "" {
			out = convID + ".html"
		}
		exporter, err := export.New()
		if err != nil {
			return err
		}
		if err := exporter.WriteFile(out, "Conversation "+convID, msgs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (defaults to <conversation>.html)")
	addSessionFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
