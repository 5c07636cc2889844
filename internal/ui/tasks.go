package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/litedo/internal/query"
	"github.com/josephgoksu/litedo/internal/taskutil"
	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/internal/utils"
	"github.com/josephgoksu/litedo/models"
)

const (
	checkDone = "✓"
	checkOpen = "○"
)

// ListOptions control RenderTaskList.
type ListOptions struct {
	// Today anchors due-date labels (YYYY-MM-DD).
	Today string
	// Title is printed above the table with the task count.
	Title      string
	TitleWidth int
}

// RenderTaskList writes tasks as a table.
func RenderTaskList(w io.Writer, tasks []models.Task, opts ListOptions) {
	title := opts.Title
	if title == "" {
		title = "Tasks"
	}
	_, _ = fmt.Fprintln(w, StyleHeader.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, StyleSubtle.Render("  No tasks match."))
		return
	}

	width := opts.TitleWidth
	if width <= 0 {
		width = 48
	}

	table := &Table{Headers: []string{"", "ID", "Pri", "Title", "Due", "Tags", "Sub"}}
	for _, t := range tasks {
		check := checkOpen
		if t.Completed {
			check = checkDone
		}
		table.Rows = append(table.Rows, []string{
			check,
			util.ShortID(t.ID, 0),
			taskutil.PriorityLabel(t.Priority),
			utils.Truncate(utils.OneLine(t.Title), width),
			taskutil.DueLabel(t, opts.Today),
			strings.Join(t.Tags, ","),
			taskutil.SubtaskProgress(t),
		})
	}
	table.CellStyle = func(row, col int) (lipgloss.Style, bool) {
		t := tasks[row]
		switch {
		case col == 0 && t.Completed:
			return StyleSuccess, true
		case col == 2:
			return PriorityStyle(string(t.Priority)), true
		case col == 3 && t.Completed:
			return StyleDone, true
		case col == 4 && !t.Completed && t.DueDate != "" && t.DueDate < opts.Today:
			return StyleError, true
		case col == 5:
			return StyleTag, true
		}
		return lipgloss.Style{}, false
	}
	_, _ = fmt.Fprint(w, table.Render())
}

// RenderTask writes the full detail of one task.
func RenderTask(w io.Writer, t models.Task, today string) {
	var b strings.Builder
	status := StyleWarning.Render("open")
	if t.Completed {
		status = StyleSuccess.Render("done " + t.CompletedDate)
	}
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", StyleSubtle.Render(fmt.Sprintf("%-9s", label)), value)
	}

	field("id", t.ID)
	field("status", status)
	field("priority", PriorityStyle(string(t.Priority)).Render(string(t.Priority)))
	field("due", taskutil.DueLabel(t, today))
	field("tags", StyleTag.Render(strings.Join(t.Tags, ", ")))
	field("created", strings.TrimSpace(t.CreatedDate+" "+t.CreatedTime))
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	if len(t.Subtasks) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", StyleSectionTitle.Render("Subtasks"), StyleSubtle.Render(taskutil.SubtaskProgress(t)))
		for i, s := range t.Subtasks {
			mark, label := checkOpen, s.Label
			if s.Done {
				mark, label = StyleSuccess.Render(checkDone), StyleDone.Render(s.Label)
			}
			fmt.Fprintf(&b, " %d. %s %s\n", i, mark, label)
		}
	}

	_, _ = fmt.Fprintln(w, RenderPanel(t.Title, strings.TrimRight(b.String(), "\n")))
}

// RenderCategoryCounts writes the sidebar bucket counts on one line.
func RenderCategoryCounts(w io.Writer, c query.CategoryCounts) {
	parts := make([]string, 0, len(query.Categories))
	for _, cat := range query.Categories {
		style := StyleText
		if cat == query.CategoryOverdue && c.Overdue > 0 {
			style = StyleError
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %d", cat, c.Get(cat))))
	}
	_, _ = fmt.Fprintln(w, " "+strings.Join(parts, StyleSubtle.Render(" • ")))
}

// RenderStats writes the statistics panel.
func RenderStats(w io.Writer, s query.Stats, c query.CategoryCounts) {
	var b strings.Builder
	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", StyleSubtle.Render(fmt.Sprintf("%-14s", label)), value)
	}
	row("total", s.Total)
	row("completed", fmt.Sprintf("%d (%d%%)", s.Completed, s.CompletionPct))
	row("overdue", s.Overdue)
	row("streak", fmt.Sprintf("%d day(s)", s.Streak))
	row("busiest day", s.BusiestDay)
	row("avg per day", fmt.Sprintf("%.1f", s.AvgPerDay))
	if len(s.TopTags) > 0 {
		tags := make([]string, 0, len(s.TopTags))
		for _, tc := range s.TopTags {
			tags = append(tags, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
		}
		row("top tags", StyleTag.Render(strings.Join(tags, ", ")))
	}

	_, _ = fmt.Fprintln(w, RenderPanel("Statistics", strings.TrimRight(b.String(), "\n")))
	RenderCategoryCounts(w, c)
}

// RenderTagCounts writes tags with their usage counts.
func RenderTagCounts(w io.Writer, counts []query.TagCount) {
	if len(counts) == 0 {
		_, _ = fmt.Fprintln(w, StyleSubtle.Render("No tags yet."))
		return
	}
	table := &Table{Headers: []string{"Tag", "Tasks"}}
	for _, tc := range counts {
		table.Rows = append(table.Rows, []string{tc.Tag, fmt.Sprintf("%d", tc.Count)})
	}
	table.CellStyle = func(_, col int) (lipgloss.Style, bool) {
		return StyleTag, col == 0
	}
	_, _ = fmt.Fprint(w, table.Render())
}

// RenderFilterSummary writes the active filter criteria, if any.
func RenderFilterSummary(w io.Writer, f models.FilterConfig) {
	parts := f.Summary()
	if len(parts) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, StyleSubtle.Render("filters: "+strings.Join(parts, ", ")))
}
