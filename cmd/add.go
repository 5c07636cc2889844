/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/josephgoksu/litedo/internal/taskutil"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a task to the front of the list.

Priority defaults to Med. Due dates use YYYY-MM-DD. At most five tags are
kept; extra tags are dropped with a warning.

Examples:
  litedo add "Write report"
  litedo add "Ship release" -p high --due 2025-08-15 --tags work,release
  litedo add "Plan trip" --subtask "Book flights" --subtask "Reserve hotel"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addDue         string
	addTags        []string
	addSubtasks    []string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority (low, med, high)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "comma separated tags")
	addCmd.Flags().StringArrayVarP(&addSubtasks, "subtask", "s", nil, "subtask label (repeatable)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	in := store.NewTaskInput{
		Title:       strings.TrimSpace(strings.Join(args, " ")),
		Description: addDescription,
		DueDate:     strings.TrimSpace(addDue),
		Tags:        addTags,
		Subtasks:    addSubtasks,
	}
	if addPriority != "" {
		p, err := taskutil.NormalizePriority(addPriority)
		if err != nil {
			return err
		}
		in.Priority = p
	}

	task, res, err := a.Store.Create(in)
	if err != nil {
		return err
	}
	return printTaskResult(cmd.OutOrStdout(), a, "Added", task, res)
}
