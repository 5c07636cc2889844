package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/spf13/cobra"
)

type crashSummary struct {
	Path       string `json:"path"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
	Command    string `json:"command"`
	PanicValue string `json:"panicValue"`
}

var crashesCmd = &cobra.Command{
	Use:         "crashes",
	Short:       "List crash reports written by previous runs",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := logger.Crashes()
		paths, err := rec.List()
		if err != nil {
			return fmt.Errorf("list crash logs: %w", err)
		}

		summaries := make([]crashSummary, 0, len(paths))
		for _, p := range paths {
			entry, err := rec.Read(p)
			if err != nil {
				LogError("skip crash log", err)
				continue
			}
			summaries = append(summaries, crashSummary{
				Path:       p,
				Timestamp:  entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
				Version:    entry.Version,
				Command:    entry.Command,
				PanicValue: entry.PanicValue,
			})
		}

		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, summaries)
		}
		if len(summaries) == 0 {
			printf(w, "No crash reports in %s\n", rec.Dir())
			return nil
		}
		table := &ui.Table{
			Headers:  []string{"When", "Version", "Command", "Panic", "File"},
			MaxWidth: 60,
		}
		for _, s := range summaries {
			table.Rows = append(table.Rows, []string{s.Timestamp, s.Version, s.Command, s.PanicValue, filepath.Base(s.Path)})
		}
		printf(w, "%s", table.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crashesCmd)
}
