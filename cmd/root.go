/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/litedo/internal/app"
	"github.com/josephgoksu/litedo/internal/filesync"
	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/internal/telemetry"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"

	// current is the App built for the running command. Commands annotated
	// with skipApp run without one.
	current *app.App
	// log is the process logger, replaced once config is loaded.
	log = logger.NewNop()

	startedAt time.Time
)

// skipApp marks commands that must not open the cache.
const skipApp = "litedo/skip-app"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "litedo",
	Short: "litedo - a local-first task manager",
	Long: `litedo is a local-first task manager. It keeps a task list in a local
cache and can bind it to a JSON, YAML or TOML file that it keeps in sync:
local edits are saved back after a short debounce, and external edits are
picked up on reload.

Examples:
  litedo add "Write report" --priority high --due 2025-08-15 --tags work
  litedo list --search "tag:work is:overdue"
  litedo file open ~/tasks.json
  litedo watch`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardownApp(cmd, nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		if current != nil {
			_ = teardownApp(cmd, err)
		}
		if !errors.Is(err, errReported) {
			PrintError(userMessage(err), err)
		}
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.litedo/.litedo.yaml or $HOME/.litedo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only print errors")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func setupApp(cmd *cobra.Command, args []string) error {
	startedAt = time.Now()
	cfg := GetConfig()
	logger.SetBasePath(cfg.Project.RootDir)
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath(), args)

	if cmd.Annotations[skipApp] == "true" {
		return nil
	}

	if err := os.MkdirAll(cfg.Project.RootDir, 0o755); err != nil {
		return types.NewError(types.KindIO, "create "+cfg.Project.RootDir, err)
	}
	log = newLogger(cfg)

	a, err := app.New(app.Options{
		RootDir:        cfg.Project.RootDir,
		CacheFile:      cfg.Data.CacheFile,
		Debounce:       time.Duration(cfg.Sync.DebounceMs) * time.Millisecond,
		ReloadInterval: time.Duration(cfg.Sync.ReloadIntervalMs) * time.Millisecond,
		Logger:         log,
		Confirm:        confirmOverwrite,
		Telemetry:      newTelemetry(cmd, cfg),
	})
	if err != nil {
		return fmt.Errorf("open task cache: %w", err)
	}
	current = a
	ui.ApplyTheme(string(a.Preferences().Theme))

	if res := a.Start(cmd.Context()); !res.OK() {
		printResult(res)
	}
	return nil
}

// teardownApp flushes any pending file write and closes the App. cmdErr is
// the command's own failure, used for telemetry.
func teardownApp(cmd *cobra.Command, cmdErr error) error {
	if current == nil {
		return nil
	}
	a := current
	current = nil

	event := telemetry.EventCommandExecuted
	if cmdErr != nil {
		event = telemetry.EventCommandError
	}
	a.Telemetry.Track(event, telemetry.CommandProperties(cmd.Name(), time.Since(startedAt), string(types.KindOf(cmdErr))))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := a.Close(ctx)
	if !res.OK() {
		printResult(res)
	}
	if err != nil {
		LogError("close cache", err)
	}
	_ = log.Close()
	return nil
}

func newLogger(cfg *types.AppConfig) *logger.Logger {
	lc := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if isVerbose() {
		lc = logger.Config{Level: "debug", Format: "console"}
	}
	l, err := logger.New(lc)
	if err != nil {
		LogError("logger unavailable", err)
		return logger.NewNop()
	}
	return l
}

func newTelemetry(cmd *cobra.Command, cfg *types.AppConfig) telemetry.Client {
	dir := cfg.Project.RootDir
	tc, err := telemetry.LoadConfig(dir)
	if err != nil {
		LogError("read telemetry settings", err)
		return telemetry.NewNoopClient()
	}
	if cfg.Telemetry.APIKey == "" {
		return telemetry.NewNoopClient()
	}
	interactive := ui.IsInteractive() && !isJSON() && !isQuiet()
	if _, err := telemetry.AskConsent(tc, dir, cmd.ErrOrStderr(), interactive, telemetry.ConfirmPrompt); err != nil {
		LogError("telemetry consent", err)
	}
	return telemetry.New(telemetry.ClientConfig{
		APIKey:   cfg.Telemetry.APIKey,
		Endpoint: cfg.Telemetry.Endpoint,
		Version:  version,
		Config:   tc,
	}, log)
}

// confirmOverwrite asks before replacing a file that changed on disk. Without
// a terminal the overwrite is refused.
func confirmOverwrite(_ context.Context, path string, diskMs, lastKnownMs int64) bool {
	if !ui.IsInteractive() || isJSON() {
		return false
	}
	fmt.Fprintln(os.Stderr, ui.RenderWarningPanel("File changed on disk",
		fmt.Sprintf("%s was modified at %s, after it was last loaded or saved (%s).",
			filepath.Base(path), formatMs(diskMs), formatMs(lastKnownMs))))
	ok, err := promptConfirm("Overwrite it with your changes")
	if err != nil {
		LogError("confirm overwrite", err)
		return false
	}
	return ok
}

func formatMs(ms int64) string {
	if ms <= 0 {
		return "never"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

// requireApp returns the App opened for this command.
func requireApp() (*app.App, error) {
	if current == nil {
		return nil, errors.New("task cache is not open")
	}
	return current, nil
}

// printResult reports a file operation outcome on stderr.
func printResult(res filesync.Result) {
	if res.OK() {
		if !isQuiet() && !isJSON() && res.Message != "" {
			fmt.Fprintln(os.Stderr, ui.StyleSuccess.Render("✓ "+res.Message))
		}
		return
	}
	msg := res.String()
	switch res.Outcome {
	case filesync.OutcomeConflict:
		msg += "\nRun `litedo file save --force` to overwrite or `litedo file reload` to discard your changes."
	case filesync.OutcomeCancelled:
		msg += "\nYour changes are kept in the local cache."
	}
	PrintError(ui.StyleError.Render("✗ ")+msg, res.Err)
}
