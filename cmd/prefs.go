package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/store"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long: `Preferences are stored in the local cache next to the tasks.

  autoSave      write local edits to the bound file automatically (default true)
  autoReload    pick up external edits to the bound file (default false)
  autoReloadMs  reload check interval, at least 2000 (default 5000)
  reopen        reload the last bound file on startup if it changed (default false)
  theme         auto, light or dark`,
	RunE: runPrefsGet,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print preferences",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		key, err := prefKey(args[0])
		if err != nil {
			return err
		}
		prefs, err := a.SetPreference(key, args[1])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, prefs)
		}
		printf(w, "%s %s = %s\n", ui.StyleSuccess.Render("✓"), key, prefValues(prefs)[key])
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	Long:  "Restore every preference to its default. The bound file is kept.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		prefs, err := a.ResetPreferences()
		if err != nil {
			return err
		}
		ui.ApplyTheme(string(prefs.Theme))
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, prefs)
		}
		printf(w, "%s Preferences restored to defaults\n", ui.StyleSuccess.Render("✓"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd, prefsResetCmd)
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	prefs := a.Preferences()
	values := prefValues(prefs)
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		key, err := prefKey(args[0])
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(w, map[string]string{key: values[key]})
		}
		fmt.Fprintln(w, values[key])
		return nil
	}

	if isJSON() {
		return printJSON(w, prefs)
	}
	table := &ui.Table{Headers: []string{"Key", "Value"}}
	for _, key := range store.SettableKeys {
		table.Rows = append(table.Rows, []string{key, values[key]})
	}
	if prefs.LastFilePath != "" {
		table.Rows = append(table.Rows, []string{store.KeyLastFilePath, prefs.LastFilePath})
	}
	fmt.Fprint(w, table.Render())
	return nil
}

// prefKey matches a user-typed key against the settable keys, ignoring case,
// dashes and underscores.
func prefKey(s string) (string, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, key := range store.SettableKeys {
		if strings.ToLower(key) == norm {
			return key, nil
		}
	}
	return "", types.ValidationError("unknown preference %q (valid: %s)", s, strings.Join(store.SettableKeys, ", "))
}

func prefValues(p store.Preferences) map[string]string {
	return map[string]string{
		store.KeyAutoSave:     fmt.Sprint(p.AutoSave),
		store.KeyAutoReload:   fmt.Sprint(p.AutoReload),
		store.KeyAutoReloadMs: fmt.Sprint(p.AutoReloadMs),
		store.KeyReopen:       fmt.Sprint(p.Reopen),
		store.KeyTheme:        string(p.Theme),
	}
}
