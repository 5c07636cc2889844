/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/josephgoksu/litedo/internal/app"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path|->",
	Short: "Replace the task list with tasks from a file",
	Long: `Replace every task with the contents of a JSON, YAML or TOML file.

The file may be a full payload ({exportDate, lastKnownModifiedMs, tasks}) or
a bare array of tasks. Nothing changes if the file is malformed. Use - to
read from stdin together with --format.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the task list",
	Long: `Export every task as JSON, YAML, TOML or Markdown. Without a path the
export is printed to stdout. With a path the format follows its extension
unless --format is given.

Examples:
  litedo export > tasks.json
  litedo export --format md
  litedo export backup.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	importFormat string
	importYes    bool
	exportFormat string
)

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)

	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "json, yaml or toml (default: from the extension)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace without asking")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json, yaml, toml or md (default: data.exportFormat)")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if !importYes && ui.IsInteractive() && !isJSON() && a.Store.Len() > 0 {
		ok, err := promptConfirm(fmt.Sprintf("Replace all %d tasks", a.Store.Len()))
		if err != nil {
			return err
		}
		if !ok {
			printf(cmd.OutOrStdout(), "Cancelled.\n")
			return nil
		}
	}

	var n int
	if args[0] == "-" {
		if importFormat == "" {
			return types.ValidationError("--format is required when reading from stdin")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return types.NewError(types.KindIO, "read stdin", err)
		}
		n, err = a.Import(importFormat, data)
		if err != nil {
			return err
		}
	} else if n, err = a.ImportFile(args[0], importFormat); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(w, bulkResult{Status: "imported", Count: n})
	}
	printf(w, "%s Imported %d task(s)\n", ui.StyleSuccess.Render("✓"), n)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	format := exportFormat
	if len(args) == 1 {
		n, err := a.ExportFile(args[0], format)
		if err != nil {
			return err
		}
		printf(cmd.ErrOrStderr(), "%s Exported %d task(s) to %s\n", ui.StyleSuccess.Render("✓"), n, args[0])
		return nil
	}

	if format == "" {
		format = GetConfig().Data.ExportFormat
	}
	if _, err := app.ParseExportFormat(format); err != nil {
		return err
	}
	data, err := a.Export(format)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return types.NewError(types.KindIO, "write export", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
