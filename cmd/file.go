package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/josephgoksu/litedo/internal/app"
	"github.com/josephgoksu/litedo/internal/filesync"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Bind the task list to a JSON, YAML or TOML file",
	Long: `Bind the task list to an external file and keep the two in sync.

While a file is bound, local edits are written back after a short debounce
(when auto-save is on). A write never silently overwrites a file that changed
on disk since it was last loaded or saved: you are asked to confirm, and
declining keeps your changes in the local cache only.

The format follows the file extension (.json, .yaml/.yml, .toml).`,
}

var fileNewCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Save the current tasks to a new file and bind to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(cmd, func(a *app.App) filesync.Result {
			return a.BindNewFile(cmd.Context(), absPath(args[0]))
		})
	},
}

var fileOpenCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Load a file, replacing the current tasks, and bind to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(cmd, func(a *app.App) filesync.Result {
			return a.BindExistingFile(cmd.Context(), absPath(args[0]))
		})
	},
}

var (
	fileSaveAs    string
	fileSaveForce bool
)

var fileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the tasks to the bound file now",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := filesync.WriteOptions{Force: fileSaveForce}
		if fileSaveAs != "" {
			opts.SaveAs = absPath(fileSaveAs)
		}
		return runFileOp(cmd, func(a *app.App) filesync.Result {
			return a.WriteNow(cmd.Context(), opts)
		})
	},
}

var fileReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the bound file, discarding unsaved local changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(cmd, func(a *app.App) filesync.Result {
			return a.ForceReload(cmd.Context())
		})
	},
}

var fileCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Unbind the file and clear the task list",
	Long: `Forget the bound file and clear the in-memory list. The file itself is
not touched. Pending changes are not written; run 'litedo file save' first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		path := a.Binding.Path()
		if path == "" {
			return types.ValidationError("no file is bound")
		}
		if err := a.Unbind(); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, resultResponse{Outcome: string(filesync.OutcomeSuccess), Message: "closed " + filepath.Base(path)})
		}
		printf(w, "%s Closed %s\n", ui.StyleSuccess.Render("✓"), filepath.Base(path))
		return nil
	},
}

var fileStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the bound file and its sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		prefs := a.Preferences()
		status := fileStatusResponse{
			Bound:             a.Binding.Path() != "",
			Path:              a.Binding.Path(),
			State:             a.Binding.State().String(),
			LastKnownModified: a.Binding.LastKnownModified(),
			AutoSave:          prefs.AutoSave,
			AutoReload:        prefs.AutoReload,
			Tasks:             a.Store.Len(),
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, status)
		}
		if isQuiet() {
			return nil
		}
		if !status.Bound {
			fmt.Fprintln(w, ui.RenderPanel("File", fmt.Sprintf("No file bound. %d tasks in the local cache.", status.Tasks)))
			return nil
		}
		body := fmt.Sprintf("path       %s\nstate      %s\nsaved at   %s\nauto-save  %t\nauto-load  %t\ntasks      %d",
			status.Path, status.State, formatMs(status.LastKnownModified), status.AutoSave, status.AutoReload, status.Tasks)
		fmt.Fprintln(w, ui.RenderPanel(filepath.Base(status.Path), body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileNewCmd, fileOpenCmd, fileSaveCmd, fileReloadCmd, fileCloseCmd, fileStatusCmd)

	fileSaveCmd.Flags().StringVar(&fileSaveAs, "as", "", "save to a new file and bind to it")
	fileSaveCmd.Flags().BoolVarP(&fileSaveForce, "force", "f", false, "overwrite even if the file changed on disk")
}

// runFileOp runs one file operation and reports its outcome. Any outcome
// other than success fails the command.
func runFileOp(cmd *cobra.Command, op func(a *app.App) filesync.Result) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	res := op(a)
	if isJSON() {
		if err := printJSON(cmd.OutOrStdout(), resultResponse{Outcome: string(res.Outcome), Message: res.Message}); err != nil {
			return err
		}
	} else {
		printResult(res)
	}
	if res.OK() {
		return nil
	}
	return errReported
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
