package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/paths"
)

// quillDir is the global --quill-dir flag value.
var quillDir string

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Streaming email assistant",
	Long:  "quill drafts, corrects, and summarizes email through a streaming assistant backend.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set QUILL_DIR environment variable if --quill-dir is provided.
		// This allows all path helpers to use the override.
		if quillDir != "" {
			if err := os.Setenv(paths.EnvQuillDir, quillDir); err != nil {
				return err
			}
		}
		return setupLogging()
	},
}

// QuillDir returns the value of the --quill-dir flag.
func QuillDir() string {
	return quillDir
}

func init() {
	rootCmd.PersistentFlags().StringVar(&quillDir, "quill-dir", "", "base directory for quill data (overrides ~/.quill)")
}

func Execute() error {
	return rootCmd.Execute()
}
