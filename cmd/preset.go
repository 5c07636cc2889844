package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/models"
	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save and apply named filter presets",
	Long: `Filter presets store a structured filter configuration under a name.
Applying a preset makes it the active configuration used by 'litedo list --active'.

Examples:
  litedo preset save "Work this week" --filter-tag work --due-filter week
  litedo list --preset "work this week"
  litedo preset apply "Work this week"`,
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given filters under a name",
	Long:  `Save filters under a name. Saving over an existing name (any casing) replaces its filters.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		base := models.FilterConfig{}
		if presetFromActive {
			if base, err = a.Presets.Active(); err != nil {
				return err
			}
		}
		filters, err := presetFilters.apply(cmd, base)
		if err != nil {
			return err
		}
		p, err := a.Presets.Save(strings.Join(args, " "), filters)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, p)
		}
		printf(w, "%s Saved preset %q\n", ui.StyleSuccess.Render("✓"), p.Name)
		return nil
	},
}

var presetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		presets, err := a.Presets.List()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			if presets == nil {
				presets = []models.FilterPreset{}
			}
			return printJSON(w, presets)
		}
		if isQuiet() {
			return nil
		}
		if len(presets) == 0 {
			fmt.Fprintln(w, ui.StyleSubtle.Render("No presets saved."))
			return nil
		}
		table := &ui.Table{Headers: []string{"Name", "Filters"}}
		for _, p := range presets {
			table.Rows = append(table.Rows, []string{p.Name, strings.Join(p.Filters.Summary(), "; ")})
		}
		fmt.Fprint(w, table.Render())
		return nil
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Make a preset the active filter configuration",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		p, err := a.Presets.Apply(strings.Join(args, " "))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(w, p.Filters)
		}
		printf(w, "%s Applied preset %q\n", ui.StyleSuccess.Render("✓"), p.Name)
		if !isQuiet() {
			ui.RenderFilterSummary(w, p.Filters)
		}
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a preset",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		name := strings.Join(args, " ")
		if err := a.Presets.Delete(name); err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%s Deleted preset %q\n", ui.StyleSuccess.Render("✓"), name)
		return nil
	},
}

var presetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the active filter configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		if err := a.Presets.SetActive(models.FilterConfig{}); err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%s Cleared active filters\n", ui.StyleSuccess.Render("✓"))
		return nil
	},
}

var (
	presetFilters    filterFlags
	presetFromActive bool
)

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetSaveCmd, presetListCmd, presetApplyCmd, presetDeleteCmd, presetClearCmd)

	presetFilters.register(presetSaveCmd)
	presetSaveCmd.Flags().BoolVar(&presetFromActive, "from-active", false, "start from the active filter configuration")
}
