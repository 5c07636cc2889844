package cmd

import (
	"github.com/josephgoksu/litedo/internal/query"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	Long: `Show totals, completion rate, the current completion streak, the
weekday with the most completions, average completions per day and the most
used tags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		stats, counts := a.Stats(), a.CategoryCounts()
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, struct {
				query.Stats
				Categories query.CategoryCounts `json:"categories"`
			}{stats, counts})
		}
		if !isQuiet() {
			ui.RenderStats(w, stats, counts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
