package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/internal/filesync"
	"github.com/josephgoksu/litedo/internal/telemetry"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/afero"
)

// FormatMarkdown is the export-only Markdown format.
const FormatMarkdown = "md"

// ParseExportFormat accepts the file formats plus md/markdown.
func ParseExportFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	f, err := store.ParseFormat(s)
	if err != nil {
		return "", types.NewError(types.KindValidation, "unsupported export format", err)
	}
	return string(f), nil
}

// Export encodes the collection. Markdown groups tasks by tag set; the other
// formats write the file payload.
func (a *App) Export(format string) ([]byte, error) {
	f, err := ParseExportFormat(format)
	if err != nil {
		return nil, err
	}
	tasks := a.Store.Snapshot()
	if f == FormatMarkdown {
		return []byte(store.ExportMarkdown(tasks, a.Now())), nil
	}
	data, err := store.Encode(store.Format(f), store.NewPayload(tasks, a.Now(), a.Binding.LastKnownModified()))
	if err != nil {
		return nil, types.NewError(types.KindFormat, "encode export", err)
	}
	a.Telemetry.Track(telemetry.EventExport, telemetry.FileProperties(f, "success", len(tasks)))
	return data, nil
}

// ExportFile writes Export output to path; an empty format follows the
// file extension.
func (a *App) ExportFile(path, format string) (int, error) {
	if format == "" {
		format = exportFormatForPath(path)
	}
	data, err := a.Export(format)
	if err != nil {
		return 0, err
	}
	if err := afero.WriteFile(a.fs, path, data, 0o644); err != nil {
		return 0, types.NewError(types.KindIO, fmt.Sprintf("write %s", path), err)
	}
	return a.Store.Len(), nil
}

// Import replaces the collection with the decoded data. On any decode error
// the collection is unchanged.
func (a *App) Import(format string, data []byte) (int, error) {
	f, err := store.ParseFormat(format)
	if err != nil {
		return 0, types.NewError(types.KindValidation, "unsupported import format", err)
	}
	tasks, err := store.Decode(f, data)
	if err != nil {
		a.Telemetry.Track(telemetry.EventImport, telemetry.FileProperties(string(f), string(filesync.OutcomeFormatError), 0))
		return 0, err
	}
	if err := a.Store.ReplaceAll(tasks); err != nil {
		return 0, err
	}
	a.Telemetry.Track(telemetry.EventImport, telemetry.FileProperties(string(f), "success", len(tasks)))
	return len(tasks), nil
}

// ImportFile reads path and imports it using the format of its extension
// unless format is given.
func (a *App) ImportFile(path, format string) (int, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return 0, types.NewError(types.KindIO, fmt.Sprintf("read %s", path), err)
	}
	if format == "" {
		format = string(store.FormatForPath(path))
	}
	return a.Import(format, data)
}

// BindNewFile saves the collection to a new file and binds to it.
func (a *App) BindNewFile(ctx context.Context, path string) filesync.Result {
	res := a.Binding.BindNew(ctx, path)
	a.trackFile(path, res)
	return res
}

// BindExistingFile loads a file into the collection and binds to it.
func (a *App) BindExistingFile(ctx context.Context, path string) filesync.Result {
	res := a.Binding.BindExisting(ctx, path)
	a.trackFile(path, res)
	return res
}

// WriteNow saves the collection to the bound file immediately.
func (a *App) WriteNow(ctx context.Context, opts filesync.WriteOptions) filesync.Result {
	res := a.Binding.WriteNow(ctx, opts)
	a.reportResult(res)
	return res
}

// ReadReload reloads external changes when auto-reload is on.
func (a *App) ReadReload(ctx context.Context) filesync.Result {
	return a.Binding.ReadReload(ctx)
}

// ForceReload reloads the bound file even when it looks unchanged,
// discarding any pending local write.
func (a *App) ForceReload(ctx context.Context) filesync.Result {
	return a.Binding.ForceReload(ctx)
}

// Unbind forgets the bound file and clears the collection.
func (a *App) Unbind() error {
	return a.Binding.Unbind()
}

// Reset restores the sample tasks.
func (a *App) Reset() error {
	return a.Store.Reset(store.SampleTasks())
}

// GenerateSample returns count random tasks without touching the
// collection.
func (a *App) GenerateSample(count int, seed int64) ([]models.Task, error) {
	if count < 1 || count > 10000 {
		return nil, types.ValidationError("count must be between 1 and 10000, got %d", count)
	}
	return store.GenerateSample(count, a.Now(), seed), nil
}

func (a *App) trackFile(path string, res filesync.Result) {
	a.Telemetry.Track(telemetry.EventFileBound, telemetry.FileProperties(string(store.FormatForPath(path)), string(res.Outcome), a.Store.Len()))
}

func exportFormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		return FormatMarkdown
	}
	return string(store.FormatForPath(path))
}
