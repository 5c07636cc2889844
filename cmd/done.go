/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Toggle a task's completion",
	Long: `Toggle a task between open and completed. Completing stamps today's
date; reopening clears it.

With --ids, every listed task is marked completed (already completed tasks
are left alone).

Examples:
  litedo done 3f2a
  litedo done --ids 3f2a,9c41,b7e0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

var doneIDs []string

func init() {
	rootCmd.AddCommand(doneCmd)
	doneCmd.Flags().StringSliceVar(&doneIDs, "ids", nil, "mark several tasks completed")
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(doneIDs) > 0 {
		ids, err := a.ResolveIDs(doneIDs)
		if err != nil {
			return err
		}
		n, err := a.Store.CompleteMany(ids)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(w, bulkResult{Status: "completed", Count: n})
		}
		printf(w, "%s Marked %d task(s) completed\n", ui.StyleSuccess.Render("✓"), n)
		return nil
	}

	if len(args) == 0 {
		return types.ValidationError("pass a task id or --ids")
	}
	id, err := a.ResolveID(args[0])
	if err != nil {
		return err
	}
	task, err := a.Store.ToggleCompleted(id)
	if err != nil {
		return err
	}
	verb := "Reopened"
	if task.Completed {
		verb = "Completed"
	}
	if isJSON() {
		return printJSON(w, task)
	}
	printf(w, "%s %s [%s] %s\n", ui.StyleSuccess.Render("✓"), verb, util.ShortID(task.ID, 0), task.Title)
	return nil
}
