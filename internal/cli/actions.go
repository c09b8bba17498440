package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quillmail/quill/internal/action"
	"github.com/quillmail/quill/internal/paths"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the configured quick actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		actionsPath, err := paths.ActionsPath()
		if err != nil {
			return err
		}
		registry, err := action.LoadRegistry(actionsPath)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tLABEL\tLLM\tTOOL")
		for _, a := range registry.Actions() {
			fmt.Fprintf(w, "%s\t%s\t%v\t%v\n", a.Key, a.Label, a.UsesLLM, a.UsesExternalTool)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
