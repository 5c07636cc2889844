package cmd

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task in detail",
	Long: `Show every field of a task, including its subtasks with their indexes.

The id may be shortened to any unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := a.ResolveID(args[0])
		if err != nil {
			return err
		}
		t, err := a.Store.Get(id)
		if err != nil {
			return err
		}
		return showTask(cmd.OutOrStdout(), a, t)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
