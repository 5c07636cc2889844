package cmd

import (
	"fmt"

	"github.com/josephgoksu/litedo/internal/query"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		counts := a.TagCounts()
		w := cmd.OutOrStdout()
		if isJSON() {
			if counts == nil {
				counts = []query.TagCount{}
			}
			return printJSON(w, counts)
		}
		if !isQuiet() {
			ui.RenderTagCounts(w, counts)
		}
		return nil
	},
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <tag>...",
	Short: "Remove tags from every task",
	Long:  `Remove one or more tags (exact match) from every task that carries them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		var n int
		if len(args) == 1 {
			n, err = a.Store.RemoveTag(args[0])
		} else {
			n, err = a.Store.RemoveTags(args)
		}
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, bulkResult{Status: "untagged", Count: n})
		}
		printf(w, "%s Removed %s from %d task(s)\n", ui.StyleSuccess.Render("✓"), fmt.Sprint(args), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
}
