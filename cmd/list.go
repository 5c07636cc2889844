/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/internal/app"
	"github.com/josephgoksu/litedo/internal/query"
	"github.com/josephgoksu/litedo/internal/taskutil"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/internal/utils"
	"github.com/josephgoksu/litedo/models"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks with search, filters, a category and a sort order.

Search syntax (space separated, every clause must match):
  word              title, description or a tag contains word
  tag:work          has tag (several tag: clauses must all match)
  priority:high     exact priority
  completed:true    completion state
  is:overdue        is:today, is:upcoming, is:completed
  before:DATE       due before DATE (after:, due: likewise)
  created:today     created:yesterday, created:DATE
  createdBefore:DATE, createdAfter:DATE
  text:word         title or description only

Examples:
  litedo list --category overdue
  litedo list -s "tag:work priority:high" --sort dueDate
  litedo list --status active --due-filter week
  litedo list --preset "This week"`,
	RunE: runList,
}

var (
	listSearch        string
	listCategory      string
	listSort          string
	listTag           string
	listHideCompleted bool
	listPreset        string
	listActive        bool
	listSaveActive    bool
	listCounts        bool
	listFilters       filterFlags
)

// filterFlags are the structured filter criteria shared by list and preset.
type filterFlags struct {
	from, to    string
	priority    string
	status      string
	tags        []string
	created     string
	createdFrom string
	createdTo   string
	due         string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "due (or created) on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "due (or created) on or before YYYY-MM-DD")
	cmd.Flags().StringVar(&f.priority, "priority", "", "priority (low, med, high)")
	cmd.Flags().StringVar(&f.status, "status", "", "active, completed or overdue")
	cmd.Flags().StringSliceVar(&f.tags, "filter-tag", nil, "required tags (all must match)")
	cmd.Flags().StringVar(&f.created, "created", "", "today, yesterday, week, month or custom")
	cmd.Flags().StringVar(&f.createdFrom, "created-from", "", "custom created range start")
	cmd.Flags().StringVar(&f.createdTo, "created-to", "", "custom created range end")
	cmd.Flags().StringVar(&f.due, "due-filter", "", "today, tomorrow, week, overdue or no-due-date")
}

// apply overlays the flags the user set on base.
func (f *filterFlags) apply(cmd *cobra.Command, base models.FilterConfig) (models.FilterConfig, error) {
	changed := cmd.Flags().Changed
	if changed("from") {
		base.FromDate = strings.TrimSpace(f.from)
	}
	if changed("to") {
		base.ToDate = strings.TrimSpace(f.to)
	}
	if changed("priority") {
		base.Priority = ""
		if f.priority != "" {
			p, err := taskutil.NormalizePriority(f.priority)
			if err != nil {
				return base, err
			}
			base.Priority = p
		}
	}
	if changed("status") {
		base.Status = models.StatusBucket(strings.ToLower(strings.TrimSpace(f.status)))
	}
	if changed("filter-tag") {
		base.Tags = models.NormalizeFilterTags(f.tags)
	}
	if changed("created") {
		base.CreatedDate = models.CreatedBucket(strings.ToLower(strings.TrimSpace(f.created)))
	}
	if changed("created-from") {
		base.CreatedFrom = strings.TrimSpace(f.createdFrom)
	}
	if changed("created-to") {
		base.CreatedTo = strings.TrimSpace(f.createdTo)
	}
	if changed("due-filter") {
		base.DueDate = models.DueBucket(strings.ToLower(strings.TrimSpace(f.due)))
	}
	if (base.CreatedFrom != "" || base.CreatedTo != "") && base.CreatedDate == "" {
		base.CreatedDate = models.CreatedCustom
	}
	return base, nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search string")
	listCmd.Flags().StringVar(&listCategory, "category", "all", "all, today, upcoming, overdue or completed")
	listCmd.Flags().StringVar(&listSort, "sort", "createdDate", "priority, dueDate or createdDate")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only tasks with this exact tag")
	listCmd.Flags().BoolVar(&listHideCompleted, "hide-completed", false, "hide completed tasks")
	listCmd.Flags().StringVar(&listPreset, "preset", "", "start from a saved filter preset")
	listCmd.Flags().BoolVar(&listActive, "active", false, "start from the active filter configuration")
	listCmd.Flags().BoolVar(&listSaveActive, "save-active", false, "store the resulting filters as the active configuration")
	listCmd.Flags().BoolVar(&listCounts, "counts", false, "print category counts above the list")
	listFilters.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	base, err := baseFilters(a)
	if err != nil {
		return err
	}
	filters, err := listFilters.apply(cmd, base)
	if err != nil {
		return err
	}
	if listSaveActive {
		if err := a.Presets.SetActive(filters); err != nil {
			return err
		}
	}

	category, err := query.ParseCategory(listCategory)
	if err != nil {
		return err
	}
	sortKey, err := query.ParseSortKey(listSort)
	if err != nil {
		return err
	}

	tasks, err := a.View(query.ViewOptions{
		Search:        listSearch,
		Filters:       filters,
		ActiveTag:     listTag,
		HideCompleted: listHideCompleted,
		Category:      category,
		Sort:          sortKey,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if isJSON() {
		if tasks == nil {
			tasks = []models.Task{}
		}
		return printJSON(w, tasks)
	}
	if isQuiet() {
		for _, t := range tasks {
			fmt.Fprintln(w, t.ID)
		}
		return nil
	}

	if listCounts {
		ui.RenderCategoryCounts(w, a.CategoryCounts())
	}
	ui.RenderFilterSummary(w, filters)
	ui.RenderTaskList(w, tasks, ui.ListOptions{
		Today: today(a),
		Title: utils.ToTitle(string(category)),
	})
	return nil
}

func baseFilters(a *app.App) (models.FilterConfig, error) {
	switch {
	case listPreset != "":
		p, err := a.Presets.Get(listPreset)
		if err != nil {
			return models.FilterConfig{}, err
		}
		return p.Filters, nil
	case listActive:
		return a.Presets.Active()
	}
	return models.FilterConfig{}, nil
}
