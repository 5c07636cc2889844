// Package logger provides structured logging and crash recovery for litedo.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash reports relative to the litedo root dir.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the number of reports kept after a new one is written.
	MaxCrashLogs = 10

	maxArgsLen = 500
)

// RunContext describes the invocation a crash report is written for.
type RunContext struct {
	RootDir   string
	Version   string
	Command   string
	Args      []string
	BoundFile string
	TaskCount int
}

// CrashRecorder keeps the latest RunContext and writes crash reports under
// its root dir.
type CrashRecorder struct {
	mu  sync.Mutex
	fs  afero.Fs
	run RunContext
	now func() time.Time
}

// NewCrashRecorder returns a recorder writing through fsys.
func NewCrashRecorder(fsys afero.Fs) *CrashRecorder {
	return &CrashRecorder{fs: fsys, now: time.Now}
}

var crashes = NewCrashRecorder(afero.NewOsFs())

// SetBasePath sets the directory crash logs are written under.
func SetBasePath(path string) {
	crashes.update(func(rc *RunContext) { rc.RootDir = path })
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	crashes.update(func(rc *RunContext) { rc.Version = version })
}

// SetCommand records the command line being executed.
func SetCommand(cmd string, args []string) {
	crashes.update(func(rc *RunContext) {
		rc.Command = cmd
		rc.Args = append([]string(nil), args...)
	})
}

// SetSyncState records the bound file and collection size.
func SetSyncState(boundFile string, taskCount int) {
	crashes.update(func(rc *RunContext) {
		rc.BoundFile = boundFile
		rc.TaskCount = taskCount
	})
}

func (r *CrashRecorder) update(fn func(*RunContext)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.run)
}

// Context returns a copy of the recorded run context.
func (r *CrashRecorder) Context() RunContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc := r.run
	rc.Args = append([]string(nil), r.run.Args...)
	return rc
}

// Dir is where crash reports go. An unset root falls back to ./.litedo.
func (r *CrashRecorder) Dir() string {
	root := r.Context().RootDir
	if root == "" {
		root = ".litedo"
	}
	return filepath.Join(root, CrashLogDir)
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	BoundFile  string    `json:"bound_file,omitempty"`
	TaskCount  int       `json:"task_count"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// Report builds the crash entry for a recovered panic value.
func (r *CrashRecorder) Report(panicValue any, stack []byte) CrashLog {
	rc := r.Context()
	args := strings.Join(rc.Args, " ")
	if len(args) > maxArgsLen {
		args = args[:maxArgsLen] + "... [truncated]"
	}
	return CrashLog{
		Timestamp:  r.now(),
		Version:    rc.Version,
		Command:    rc.Command,
		Args:       args,
		BoundFile:  rc.BoundFile,
		TaskCount:  rc.TaskCount,
		PanicValue: fmt.Sprint(panicValue),
		StackTrace: string(stack),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// Write stores entry as indented JSON, pruning the oldest reports first.
// It returns the path written.
func (r *CrashRecorder) Write(entry CrashLog) (string, error) {
	dir := r.Dir()
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := r.prune(dir, MaxCrashLogs-1); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash log: %w", err)
	}
	path := filepath.Join(dir, crashFileName(entry.Timestamp))
	if err := afero.WriteFile(r.fs, path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

// List returns the crash report paths, oldest first.
func (r *CrashRecorder) List() ([]string, error) {
	dir := r.Dir()
	names, err := r.reportNames(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// Read loads one crash report.
func (r *CrashRecorder) Read(path string) (CrashLog, error) {
	var entry CrashLog
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("parse crash log %s: %w", filepath.Base(path), err)
	}
	return entry, nil
}

func (r *CrashRecorder) reportNames(dir string) ([]string, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isCrashLog(e.Name()) {
			names = append(names, e.Name())
		}
	}
	// Names embed the timestamp, so lexical order is chronological.
	sort.Strings(names)
	return names, nil
}

// prune deletes the oldest reports until at most keep remain.
func (r *CrashRecorder) prune(dir string, keep int) error {
	names, err := r.reportNames(dir)
	if err != nil {
		return err
	}
	for i := 0; i < len(names)-keep; i++ {
		if err := r.fs.Remove(filepath.Join(dir, names[i])); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", names[i], err)
		}
	}
	return nil
}

// Recover writes a report for a panic value and tells the user where it went.
func (r *CrashRecorder) Recover(panicValue any, stderr io.Writer) {
	entry := r.Report(panicValue, debug.Stack())
	path, err := r.Write(entry)
	if err != nil {
		fmt.Fprintf(stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(stderr, "[CRASH] Panic: %v\n%s\n", panicValue, entry.StackTrace)
		return
	}
	fmt.Fprintf(stderr, "\nlitedo crashed unexpectedly. Your tasks are still in the local cache.\n")
	fmt.Fprintf(stderr, "A crash log has been saved to:\n  %s\n", path)
}

func crashFileName(t time.Time) string {
	return fmt.Sprintf("crash_%s.json", t.Format("20060102_150405.000"))
}

func isCrashLog(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".json")
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		crashes.Recover(r, os.Stderr)
		os.Exit(1)
	}
}

// Crashes returns the process-wide recorder.
func Crashes() *CrashRecorder {
	return crashes
}
