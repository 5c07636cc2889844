package store

import (
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/litedo/models"
)

// untaggedGroup heads tasks without tags in the Markdown export.
const untaggedGroup = "untagged"

// ExportMarkdown renders tasks as a Markdown checklist grouped by their tag
// list, groups sorted by key. Tasks keep collection order within a group.
func ExportMarkdown(tasks []models.Task, now time.Time) string {
	groups := make(map[string][]models.Task)
	for _, t := range tasks {
		key := untaggedGroup
		if len(t.Tags) > 0 {
			key = strings.Join(t.Tags, ", ")
		}
		groups[key] = append(groups[key], t)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{"# LiteDo Tasks Export (" + now.Format(models.DateLayout) + ")"}
	for _, key := range keys {
		lines = append(lines, "\n## "+key)
		for _, t := range groups[key] {
			status := " "
			if t.Completed {
				status = "x"
			}
			line := "- [" + status + "] " + t.Title
			if t.Priority != "" {
				line += " [" + string(t.Priority) + "]"
			}
			if t.DueDate != "" {
				line += " (due: " + t.DueDate + ")"
			}
			lines = append(lines, line)
			if t.Description != "" {
				lines = append(lines, "  - notes: "+strings.ReplaceAll(t.Description, "\n", " "))
			}
			for _, label := range t.SubtaskLabels() {
				lines = append(lines, "  - sub: "+label)
			}
		}
	}
	return strings.Join(lines, "\n")
}
