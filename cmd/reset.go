/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace every task with the sample tasks",
	Long: `Replace the task list with the three built-in sample tasks. When a file
is bound the change is written to it like any other edit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		if !resetYes {
			if !ui.IsInteractive() || isJSON() {
				return fmt.Errorf("refusing to replace %d task(s) without confirmation: pass --yes", a.Store.Len())
			}
			ok, err := promptConfirm(fmt.Sprintf("Replace all %d tasks with the sample tasks", a.Store.Len()))
			if err != nil {
				return err
			}
			if !ok {
				printf(cmd.OutOrStdout(), "Cancelled.\n")
				return nil
			}
		}
		if err := a.Reset(); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, bulkResult{Status: "reset", Count: a.Store.Len()})
		}
		printf(w, "%s Restored %d sample tasks\n", ui.StyleSuccess.Render("✓"), a.Store.Len())
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate random tasks for testing",
	Long: `Generate random tasks spread over the last and next few weeks and
print them as a JSON payload, or write them to --out in the format of its
extension. The current task list is not changed; import the result to use it.

Examples:
  litedo sample --count 500 --out big.json
  litedo sample -n 20 --seed 7 | litedo import - --format json --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		seed := sampleSeed
		if !cmd.Flags().Changed("seed") {
			seed = time.Now().UnixNano()
		}
		tasks, err := a.GenerateSample(sampleCount, seed)
		if err != nil {
			return err
		}
		if sampleOut == "" {
			data, err := store.Encode(store.FormatJSON, store.NewPayload(tasks, a.Now(), 0))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		return writeSample(cmd, afero.NewOsFs(), sampleOut, tasks, a.Now())
	},
}

var (
	resetYes    bool
	sampleCount int
	sampleSeed  int64
	sampleOut   string
)

func init() {
	rootCmd.AddCommand(resetCmd, sampleCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 100, "number of tasks (1-10000)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed for reproducible output")
	sampleCmd.Flags().StringVarP(&sampleOut, "out", "o", "", "write to this file instead of stdout")
}

func writeSample(cmd *cobra.Command, fsys afero.Fs, path string, tasks []models.Task, now time.Time) error {
	data, err := store.Encode(store.FormatForPath(path), store.NewPayload(tasks, now, 0))
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printf(cmd.ErrOrStderr(), "%s Wrote %d sample tasks to %s\n", ui.StyleSuccess.Render("✓"), len(tasks), path)
	return nil
}
