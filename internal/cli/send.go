package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/assistant"
	"github.com/quillmail/quill/internal/conversation"
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Run one chat turn and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var turnErr error
		events := assistant.Events{
			TurnError: func(err error) { turnErr = err },
		}

		session, err := buildSession(events)
		if err != nil {
			return err
		}

		if err := session.SendMessage(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		if turnErr != nil {
			return turnErr
		}

		msgs := session.Messages()
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == conversation.RoleAssistant {
				fmt.Fprintln(cmd.OutOrStdout(), msgs[i].Content)
				for _, sa := range msgs[i].SuggestedActions {
					fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", sa.Label, sa.Action)
				}
				break
			}
		}
		return nil
	},
}

func init() {
	addSessionFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}
