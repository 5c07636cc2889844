package cmd

import (
	"strconv"
	"strings"

	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Add or toggle subtasks",
	Long: `Manage the checklist of a task. Indexes start at 0, as shown by
'litedo show'. A task is completed exactly when all of its subtasks are done.`,
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <id> <label>",
	Short: "Append a subtask",
	Args:  cobra.MinimumNArgs(2),
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
		labels := append(t.SubtaskLabels(), strings.TrimSpace(strings.Join(args[1:], " ")))
		task, res, err := a.Store.Update(id, subtaskPatch(labels))
		if err != nil {
			return err
		}
		return printTaskResult(cmd.OutOrStdout(), a, "Updated", task, res)
	},
}

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle <id> <index>",
	Short: "Check or uncheck a subtask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := a.ResolveID(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return types.ValidationError("subtask index must be a number, got %q", args[1])
		}
		task, err := a.Store.ToggleSubtask(id, index)
		if err != nil {
			return err
		}
		return showTask(cmd.OutOrStdout(), a, task)
	},
}

func init() {
	rootCmd.AddCommand(subtaskCmd)
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskToggleCmd)
}
