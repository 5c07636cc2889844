/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/litedo/internal/telemetry"
	"github.com/spf13/cobra"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage litedo's anonymous telemetry settings.

litedo can send anonymous usage statistics (command names, outcomes and
counts). Task content and file paths are never collected. Nothing is sent
unless you opt in.`,
	Annotations: map[string]string{skipApp: "true"},
}

var telemetryStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show current telemetry status",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.LoadConfig(GetConfig().Project.RootDir)
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, cfg)
		}
		switch {
		case cfg.NeedsConsent():
			fmt.Fprintln(w, "📊 Telemetry: not configured (off)")
		case cfg.IsEnabled():
			fmt.Fprintln(w, "📊 Telemetry: enabled")
			fmt.Fprintf(w, "   Anonymous ID: %s\n", cfg.AnonymousID)
			fmt.Fprintln(w, "   To disable: litedo telemetry disable")
		default:
			fmt.Fprintln(w, "📊 Telemetry: disabled")
			fmt.Fprintln(w, "   To enable: litedo telemetry enable")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:         "enable",
	Short:       "Enable anonymous telemetry",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:         "disable",
	Short:       "Disable anonymous telemetry",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	dir := GetConfig().Project.RootDir
	cfg, err := telemetry.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("failed to read telemetry settings: %w", err)
	}
	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(dir); err != nil {
		return fmt.Errorf("failed to save telemetry settings: %w", err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	printf(cmd.OutOrStdout(), "✓ Telemetry %s\n", state)
	return nil
}
