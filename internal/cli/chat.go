package cli

import (
	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive assistant",
	Long:  "Open the full-screen terminal interface with the transcript, quick actions, and suggested follow-ups.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(buildSession)
	},
}

func init() {
	addSessionFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}
