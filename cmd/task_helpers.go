package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/josephgoksu/litedo/internal/app"
	"github.com/josephgoksu/litedo/internal/ui"
	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
)

// today is the app's current local date.
func today(a *app.App) string {
	return a.Now().Format(models.DateLayout)
}

// showTask prints one task as JSON or as a detail panel.
func showTask(w io.Writer, a *app.App, t models.Task) error {
	if isJSON() {
		return printJSON(w, t)
	}
	if !isQuiet() {
		ui.RenderTask(w, t, today(a))
	}
	return nil
}

// printTaskResult prints a one-line confirmation for a mutated task.
func printTaskResult(w io.Writer, a *app.App, verb string, t models.Task, res store.Result) error {
	if res.TagsTruncated {
		fmt.Fprintln(os.Stderr, ui.StyleWarning.Render(fmt.Sprintf("⚠ only the first %d tags were kept", models.MaxTags)))
	}
	if isJSON() {
		return printJSON(w, t)
	}
	printf(w, "%s %s [%s] %s\n", ui.StyleSuccess.Render("✓"), verb, util.ShortID(t.ID, 0), t.Title)
	return nil
}
