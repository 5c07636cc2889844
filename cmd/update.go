/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/josephgoksu/litedo/internal/taskutil"
	"github.com/josephgoksu/litedo/store"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a task",
	Long: `Edit the fields of a task. Only the flags you pass are changed.

Passing --subtask replaces the subtask list. Labels that keep their position
keep their done state; new positions start unchecked. Editing does not change
whether the task is completed.

Examples:
  litedo update 3f2a --title "Ship v2" --priority high
  litedo update 3f2a --due ""            # clear the due date
  litedo update 3f2a --tags work,urgent
  litedo update 3f2a --subtask Draft --subtask Review`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().StringP("desc", "d", "", "new description")
	updateCmd.Flags().StringP("priority", "p", "", "new priority (low, med, high)")
	updateCmd.Flags().String("due", "", "new due date (YYYY-MM-DD, empty clears)")
	updateCmd.Flags().StringSliceP("tags", "t", nil, "replace tags (comma separated)")
	updateCmd.Flags().StringArrayP("subtask", "s", nil, "replace subtasks (repeatable)")
	updateCmd.Flags().Bool("clear-subtasks", false, "remove every subtask")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	id, err := a.ResolveID(args[0])
	if err != nil {
		return err
	}

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return types.ValidationError("nothing to update: pass at least one of --title, --desc, --priority, --due, --tags, --subtask")
	}

	task, res, err := a.Store.Update(id, patch)
	if err != nil {
		return err
	}
	return printTaskResult(cmd.OutOrStdout(), a, "Updated", task, res)
}

func patchFromFlags(cmd *cobra.Command) (store.Patch, error) {
	var p store.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		v = strings.TrimSpace(v)
		p.Title = &v
	}
	if flags.Changed("desc") {
		v, _ := flags.GetString("desc")
		p.Description = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		pr, err := taskutil.NormalizePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		v = strings.TrimSpace(v)
		p.DueDate = &v
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		p.Tags = &v
	}
	if flags.Changed("subtask") {
		v, _ := flags.GetStringArray("subtask")
		p.Subtasks = subtaskPatch(v).Subtasks
	}
	if clearSubtasks, _ := flags.GetBool("clear-subtasks"); clearSubtasks {
		p.Subtasks = subtaskPatch([]string{}).Subtasks
	}
	return p, nil
}

func subtaskPatch(labels []string) store.Patch {
	return store.Patch{Subtasks: &labels}
}
