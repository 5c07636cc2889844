/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/internal/util"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more tasks",
	Long: `Delete tasks by id or unique id prefix. You are asked to confirm
unless --yes is passed; without a terminal --yes is required.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ids, err := a.ResolveIDs(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if !deleteYes {
		if !ui.IsInteractive() || isJSON() {
			return fmt.Errorf("refusing to delete %d task(s) without confirmation: pass --yes", len(ids))
		}
		for _, id := range ids {
			if t, err := a.Store.Get(id); err == nil {
				fmt.Fprintf(w, "  %s %s\n", util.ShortID(id, 0), t.Title)
			}
		}
		ok, err := promptConfirm(fmt.Sprintf("Delete %d task(s)", len(ids)))
		if err != nil {
			return err
		}
		if !ok {
			printf(w, "Cancelled.\n")
			return nil
		}
	}

	var n int
	if len(ids) == 1 {
		if err := a.Store.Delete(ids[0]); err != nil {
			return err
		}
		n = 1
	} else if n, err = a.Store.DeleteMany(ids); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(w, deletedResponse{Status: "deleted", IDs: ids})
	}
	printf(w, "%s Deleted %d task(s)\n", ui.StyleSuccess.Render("✓"), n)
	return nil
}
