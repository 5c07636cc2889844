package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
	"github.com/spf13/afero"
)

const (
	lockSuffix = ".lock"
	tmpSuffix  = ".tmp"
)

// FileSnapshot is what was read from an external task file.
type FileSnapshot struct {
	Tasks      []models.Task
	ModifiedMs int64
}

// TaskFile reads and writes one external task file. The encoding is picked
// from the file extension. On the OS filesystem an advisory lock on
// "<path>.lock" is held around every read and write.
type TaskFile struct {
	fs     afero.Fs
	path   string
	format Format
}

// NewTaskFile returns a TaskFile for path on fsys.
func NewTaskFile(fsys afero.Fs, path string) *TaskFile {
	return &TaskFile{fs: fsys, path: path, format: FormatForPath(path)}
}

// Path returns the file path.
func (f *TaskFile) Path() string { return f.path }

// Format returns the encoding used for the file.
func (f *TaskFile) Format() Format { return f.format }

// Exists reports whether the file is present.
func (f *TaskFile) Exists() (bool, error) {
	ok, err := afero.Exists(f.fs, f.path)
	if err != nil {
		return false, ioError("stat", f.path, err)
	}
	return ok, nil
}

// ModifiedMs returns the on-disk modification time in Unix milliseconds.
func (f *TaskFile) ModifiedMs() (int64, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, ioError("stat", f.path, err)
	}
	return info.ModTime().UnixMilli(), nil
}

// Read decodes the file. A decode failure is a format error; anything else
// is an io error.
func (f *TaskFile) Read() (FileSnapshot, error) {
	unlock, err := f.lock()
	if err != nil {
		return FileSnapshot{}, err
	}
	defer unlock()

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return FileSnapshot{}, ioError("read", f.path, err)
	}
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return FileSnapshot{}, ioError("stat", f.path, err)
	}
	tasks, err := Decode(f.format, data)
	if err != nil {
		return FileSnapshot{}, err
	}
	return FileSnapshot{Tasks: tasks, ModifiedMs: info.ModTime().UnixMilli()}, nil
}

// Write encodes tasks and atomically replaces the file, returning the new
// modification time. lastKnownMs is recorded in the payload.
func (f *TaskFile) Write(tasks []models.Task, now time.Time, lastKnownMs int64) (int64, error) {
	data, err := Encode(f.format, NewPayload(tasks, now, lastKnownMs))
	if err != nil {
		return 0, types.NewError(types.KindFormat, "encode task file", err)
	}

	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return 0, ioError("create directory for", f.path, err)
		}
	}

	unlock, err := f.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	tmp := f.path + tmpSuffix
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		_ = f.fs.Remove(tmp)
		return 0, ioError("write", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return 0, ioError("replace", f.path, err)
	}

	info, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, ioError("stat", f.path, err)
	}
	return info.ModTime().UnixMilli(), nil
}

// lock takes the advisory file lock when running on the OS filesystem.
// In-memory filesystems are process-local and need none.
func (f *TaskFile) lock() (func(), error) {
	if _, ok := f.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ioError("create directory for", f.path, err)
		}
	}
	flk := flock.New(f.path + lockSuffix)
	if err := flk.Lock(); err != nil {
		return nil, ioError("lock", f.path, err)
	}
	return func() { _ = flk.Unlock() }, nil
}

func ioError(action, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return types.NewError(types.KindIO, fmt.Sprintf("%s %s: file does not exist", action, path), err)
	}
	return types.NewError(types.KindIO, fmt.Sprintf("failed to %s %s", action, path), err)
}
