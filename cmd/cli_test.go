package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/josephgoksu/litedo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskJSON struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Priority     string   `json:"priority"`
	Completed    bool     `json:"completed"`
	DueDate      string   `json:"dueDate"`
	Tags         []string `json:"tags"`
	Subtasks     []string `json:"subtasks"`
	SubtasksDone []bool   `json:"subtasksDone"`
}

func TestCLI_TaskLifecycle(t *testing.T) {
	c := newCLI(t)

	var tasks []taskJSON
	c.jsonRun(&tasks, "list")
	require.Len(t, tasks, 3, "a fresh cache starts with the sample tasks")

	var added taskJSON
	c.jsonRun(&added, "add", "Buy", "milk", "-p", "urgent", "--tags", "home,errands", "-s", "Go to shop")
	assert.Equal(t, "Buy milk", added.Title)
	assert.Equal(t, "High", added.Priority)
	assert.Equal(t, []string{"home", "errands"}, added.Tags)
	assert.Equal(t, []string{"Go to shop"}, added.Subtasks)
	assert.False(t, added.Completed)

	c.jsonRun(&tasks, "list", "-s", "milk")
	require.Len(t, tasks, 1)
	assert.Equal(t, added.ID, tasks[0].ID)

	var toggled taskJSON
	c.jsonRun(&toggled, "subtask", "toggle", added.ID, "0")
	assert.True(t, toggled.Completed, "checking the only subtask completes the task")

	var reopened taskJSON
	c.jsonRun(&reopened, "done", added.ID)
	assert.False(t, reopened.Completed)

	var updated taskJSON
	c.jsonRun(&updated, "update", added.ID, "--title", "Buy oat milk", "--due", "2030-01-01")
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "2030-01-01", updated.DueDate)

	_, err := c.run("delete", added.ID)
	assert.Error(t, err, "delete without a terminal needs --yes")

	c.mustRun("delete", added.ID, "--yes")
	c.jsonRun(&tasks, "list", "-s", "milk")
	assert.Empty(t, tasks)
}

func TestCLI_BulkCompleteAndTags(t *testing.T) {
	c := newCLI(t)

	c.mustRun("done", "--ids", "1,2")
	var tasks []taskJSON
	c.jsonRun(&tasks, "list", "--category", "completed")
	assert.Len(t, tasks, 2)

	c.mustRun("tags", "remove", "work")
	c.jsonRun(&tasks, "list", "--tag", "work")
	assert.Empty(t, tasks)
}

func TestCLI_Validation(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "empty title", args: []string{"add", " "}},
		{name: "bad priority", args: []string{"add", "x", "-p", "someday"}},
		{name: "bad due date", args: []string{"add", "x", "--due", "tomorrow"}},
		{name: "bad category", args: []string{"list", "--category", "later"}},
		{name: "bad sort", args: []string{"list", "--sort", "title"}},
		{name: "inverted range", args: []string{"list", "--from", "2025-02-01", "--to", "2025-01-01"}},
		{name: "empty update", args: []string{"update", "1"}},
		{name: "subtask out of range", args: []string{"subtask", "toggle", "1", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(tt.args...)
			require.Error(t, err)
			if !errors.Is(err, types.ErrValidation) {
				t.Errorf("got %v, want a validation error", err)
			}
		})
	}

	_, err := c.run("show", "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCLI_FileSync(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "tasks.json")

	c.mustRun("file", "new", path)
	c.mustRun("add", "Saved on exit")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Saved on exit")

	var status fileStatusResponse
	c.jsonRun(&status, "file", "status")
	assert.True(t, status.Bound)
	assert.Equal(t, path, status.Path)
	assert.Equal(t, "clean", status.State)

	// Someone else rewrites the file after we last saved it.
	external := []models.Task{models.NewTask("x1", "Edited elsewhere", time.Now())}
	payload, err := store.Encode(store.FormatJSON, store.NewPayload(external, time.Now(), 0))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	// Without a terminal the overwrite is declined and the file is kept.
	c.mustRun("add", "Local edit")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Local edit")
	c.jsonRun(&status, "file", "status")
	assert.Equal(t, "pending-write", status.State, "unsynced edits survive the run")

	_, err = c.run("file", "save")
	assert.ErrorIs(t, err, errReported)

	c.mustRun("file", "save", "--force")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Local edit")
	c.jsonRun(&status, "file", "status")
	assert.Equal(t, "clean", status.State)

	c.mustRun("file", "close")
	c.jsonRun(&status, "file", "status")
	assert.False(t, status.Bound)
	assert.Equal(t, 0, status.Tasks)

	c.mustRun("file", "open", path)
	var tasks []taskJSON
	c.jsonRun(&tasks, "list", "-s", "local")
	assert.Len(t, tasks, 1)
}

func TestCLI_ImportExport(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()

	out := c.mustRun("export", "--format", "yaml")
	assert.Contains(t, out, "tasks:")

	out = c.mustRun("export", "--format", "md")
	assert.Contains(t, out, "# LiteDo Tasks Export")

	tomlPath := filepath.Join(dir, "backup.toml")
	c.mustRun("export", tomlPath)

	c.mustRun("delete", "1", "2", "--yes")
	var res bulkResult
	c.jsonRun(&res, "import", tomlPath, "--yes")
	assert.Equal(t, 3, res.Count)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"foo": 1}`), 0o644))
	_, err := c.run("import", bad, "--yes")
	assert.ErrorIs(t, err, types.ErrFormat)

	var tasks []taskJSON
	c.jsonRun(&tasks, "list")
	assert.Len(t, tasks, 3, "a malformed import leaves the collection unchanged")
}

func TestCLI_Presets(t *testing.T) {
	c := newCLI(t)

	c.mustRun("preset", "save", "Work", "--filter-tag", "work", "--priority", "high")

	var presets []models.FilterPreset
	c.jsonRun(&presets, "preset", "list")
	require.Len(t, presets, 1)
	assert.Equal(t, "Work", presets[0].Name)

	var tasks []taskJSON
	c.jsonRun(&tasks, "list", "--preset", "work")
	assert.Len(t, tasks, 2)

	c.mustRun("preset", "apply", "WORK")
	c.jsonRun(&tasks, "list", "--active")
	assert.Len(t, tasks, 2)

	c.mustRun("preset", "delete", "work")
	c.jsonRun(&presets, "preset", "list")
	assert.Empty(t, presets)
}

func TestCLI_Prefs(t *testing.T) {
	c := newCLI(t)

	c.mustRun("prefs", "set", "auto-reload-ms", "500")
	out := c.mustRun("prefs", "get", "autoReloadMs")
	assert.Equal(t, "2000\n", out)

	_, err := c.run("prefs", "set", "theme", "purple")
	assert.ErrorIs(t, err, types.ErrValidation)

	var prefs store.Preferences
	c.jsonRun(&prefs, "prefs")
	assert.True(t, prefs.AutoSave)
	assert.Equal(t, 2000, prefs.AutoReloadMs)

	c.mustRun("prefs", "set", "autoSave", "false")
	c.jsonRun(&prefs, "prefs", "reset")
	assert.True(t, prefs.AutoSave)
	assert.Equal(t, 5000, prefs.AutoReloadMs)
	assert.Equal(t, store.ThemeAuto, prefs.Theme)

	out = c.mustRun("prefs", "get", "autoSave")
	assert.Equal(t, "true\n", out)
}

func TestCLI_StatsSampleReset(t *testing.T) {
	c := newCLI(t)

	var stats struct {
		Total      int `json:"total"`
		Categories struct {
			All int `json:"all"`
		} `json:"categories"`
	}
	c.jsonRun(&stats, "stats")
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Categories.All)

	out := c.mustRun("sample", "-n", "5", "--seed", "1")
	sample, err := store.Decode(store.FormatJSON, []byte(out))
	require.NoError(t, err)
	assert.Len(t, sample, 5)

	c.mustRun("add", "extra")
	c.mustRun("reset", "--yes")
	var tasks []taskJSON
	c.jsonRun(&tasks, "list")
	assert.Len(t, tasks, 3)
}

func TestCLI_Telemetry(t *testing.T) {
	c := newCLI(t)

	c.mustRun("telemetry", "enable")
	var status struct {
		Enabled bool `json:"enabled"`
	}
	c.jsonRun(&status, "telemetry", "status")
	assert.True(t, status.Enabled)

	c.mustRun("telemetry", "disable")
	c.jsonRun(&status, "telemetry", "status")
	assert.False(t, status.Enabled)
}

func TestCLI_Crashes(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("crashes")
	assert.Contains(t, out, "No crash reports")

	logger.SetBasePath(c.root)
	rec := logger.Crashes()
	_, err := rec.Write(rec.Report("index out of range", nil))
	require.NoError(t, err)

	var reports []crashSummary
	c.jsonRun(&reports, "crashes")
	require.Len(t, reports, 1)
	assert.Equal(t, "index out of range", reports[0].PanicValue)
	assert.Equal(t, filepath.Join(c.root, logger.CrashLogDir), filepath.Dir(reports[0].Path))
}
