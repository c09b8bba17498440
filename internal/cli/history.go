package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/config"
	"github.com/quillmail/quill/internal/conversation"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear a stored conversation",
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

		if historyClear {
			if _, err := store.NewConversation(convID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared conversation %s\n", convID)
			return nil
		}

		msgs, err := store.Load(convID)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Role, m.Content)
			for _, sa := range m.SuggestedActions {
				fmt.Fprintf(cmd.OutOrStdout(), "    [%s] %s\n", sa.Label, sa.Action)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "reset the conversation to a fresh greeting")
	addSessionFlags(historyCmd)
	rootCmd.AddCommand(historyCmd)
}
