package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/litedo/internal/filesync"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the bound file whenever it changes",
	Long: `Keep the local cache in step with the bound file until interrupted.

The file is checked every auto-reload interval (see 'litedo prefs') and, with
--notify, as soon as the filesystem reports a change. Auto-reload is switched
on for the duration of the command.`,
	RunE: runWatch,
}

var watchNotify bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchNotify, "notify", true, "react to filesystem notifications as well as polling")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	path := a.Binding.Path()
	if path == "" {
		return types.ValidationError("no file is bound: run 'litedo file open <path>' first")
	}
	a.Binding.SetAutoReload(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printf(cmd.ErrOrStderr(), "Watching %s every %dms (Ctrl+C to stop)\n", path, a.Preferences().AutoReloadMs)
	w := cmd.OutOrStdout()
	err = a.Watch(ctx, watchNotify, func(res filesync.Result) {
		switch {
		case !res.OK():
			printResult(res)
		case res.Changed:
			printf(w, "%s %s %s\n", ui.StyleSubtle.Render(a.Now().Format("15:04:05")), ui.StyleSuccess.Render("↻"), res.Message)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}
