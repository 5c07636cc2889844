// Package filesync keeps the task collection in step with one external file:
// debounced automatic writes, conflict detection on the file's modification
// time and periodic reload of external edits.
package filesync

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/afero"
)

// State is the binding lifecycle state.
type State int

const (
	StateUnbound State = iota
	StateClean
	StatePendingWrite
	StateConflict
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateClean:
		return "clean"
	case StatePendingWrite:
		return "pending-write"
	case StateConflict:
		return "conflict"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ConfirmFunc asks whether to overwrite a file that changed on disk after
// it was last read or written. Returning false cancels the write.
type ConfirmFunc func(ctx context.Context, path string, diskMs, lastKnownMs int64) bool

// Options configure a Binding.
type Options struct {
	FS       afero.Fs
	Clock    Clock
	Debounce time.Duration
	// AutoSave schedules a debounced write after every local mutation.
	AutoSave bool
	// AutoReload enables ReadReload. ForceReload ignores it.
	AutoReload bool
	// Confirm resolves write conflicts. When nil a conflicting write returns
	// OutcomeConflict and leaves the file alone.
	Confirm ConfirmFunc
	Logger  *logger.Logger
	// OnBindingChange receives the bound path and token after every bind,
	// successful write, reload and unbind. An empty path means unbound.
	OnBindingChange func(path string, lastKnownMs int64)
	// OnResult receives the outcome of debounced background writes.
	OnResult func(Result)
}

// WriteOptions modify WriteNow.
type WriteOptions struct {
	// SaveAs rebinds to a new path and writes the collection there.
	SaveAs string
	// Force skips the conflict check.
	Force bool
}

// Binding ties a TaskStore to a file. All methods are safe for concurrent
// use.
type Binding struct {
	store     store.TaskStore
	fs        afero.Fs
	clock     Clock
	debouncer *Debouncer
	log       *logger.Logger
	onChange  func(string, int64)
	onResult  func(Result)

	// ioMu serializes file I/O; mu guards the fields below. ioMu is always
	// taken first.
	ioMu       sync.Mutex
	mu         sync.Mutex
	file       *store.TaskFile
	lastKnown  int64
	state      State
	autoSave   bool
	autoReload bool
	confirm    ConfirmFunc

	unsubscribe func()
}

// NewBinding returns an unbound Binding observing s.
func NewBinding(s store.TaskStore, opts Options) *Binding {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	b := &Binding{
		store:      s,
		fs:         opts.FS,
		clock:      opts.Clock,
		debouncer:  NewDebouncer(opts.Clock, opts.Debounce),
		log:        opts.Logger.WithComponent("filesync"),
		onChange:   opts.OnBindingChange,
		onResult:   opts.OnResult,
		autoSave:   opts.AutoSave,
		autoReload: opts.AutoReload,
		confirm:    opts.Confirm,
	}
	b.unsubscribe = s.Subscribe(b.onStoreChange)
	return b
}

// Close stops observing the store and drops any pending write.
func (b *Binding) Close() {
	b.debouncer.Cancel()
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// State returns the current lifecycle state.
func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Path returns the bound path, empty when unbound.
func (b *Binding) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file == nil {
		return ""
	}
	return b.file.Path()
}

// LastKnownModified returns the modification time recorded at the last
// bind, write or reload.
func (b *Binding) LastKnownModified() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastKnown
}

// WritePending reports whether a debounced write is armed.
func (b *Binding) WritePending() bool { return b.debouncer.Pending() }

func (b *Binding) SetAutoSave(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoSave = on
	if !on {
		b.debouncer.Cancel()
	}
}

func (b *Binding) SetAutoReload(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoReload = on
}

func (b *Binding) SetConfirm(fn ConfirmFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirm = fn
}

// BindNew writes the current collection to path and binds to it.
func (b *Binding) BindNew(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return failure(err)
	}
	b.ioMu.Lock()
	defer b.ioMu.Unlock()

	file := store.NewTaskFile(b.fs, path)
	tasks := b.store.Snapshot()
	ms, err := file.Write(tasks, b.clock.Now(), 0)
	if err != nil {
		b.log.Warnw("Bind new file failed", "path", path, "error", err)
		return failure(err)
	}

	b.debouncer.Cancel()
	b.setBinding(file, ms, StateClean)
	b.log.Infow("Bound new file", "path", path, "tasks", len(tasks))
	return transferred("saved %d tasks to %s", len(tasks), filepath.Base(path))
}

// BindExisting reads path, replaces the collection with its contents and
// binds to it. On failure the collection and binding are unchanged.
func (b *Binding) BindExisting(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return failure(err)
	}
	b.ioMu.Lock()
	defer b.ioMu.Unlock()

	file := store.NewTaskFile(b.fs, path)
	snap, err := file.Read()
	if err != nil {
		b.log.Warnw("Open file failed", "path", path, "error", err)
		return failure(err)
	}
	if err := b.store.Reload(snap.Tasks); err != nil {
		return failure(err)
	}

	b.debouncer.Cancel()
	b.setBinding(file, snap.ModifiedMs, StateClean)
	b.log.Infow("Bound existing file", "path", path, "tasks", len(snap.Tasks))
	return transferred("loaded %d tasks from %s", len(snap.Tasks), filepath.Base(path))
}

// Resume restores a binding recorded by a previous run without touching the
// file. The next write or reload compares against lastKnownMs. pending
// restores unsynced changes left by that run.
func (b *Binding) Resume(path string, lastKnownMs int64, pending bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.file = store.NewTaskFile(b.fs, path)
	b.lastKnown = lastKnownMs
	b.state = StateClean
	if pending {
		b.state = StatePendingWrite
	}
}

// Unsynced reports whether the collection has changes the bound file lacks.
func (b *Binding) Unsynced() bool {
	s := b.State()
	return s == StatePendingWrite || s == StateConflict
}

// WriteNow cancels any pending debounced write and writes immediately.
func (b *Binding) WriteNow(ctx context.Context, opts WriteOptions) Result {
	if opts.SaveAs != "" {
		return b.BindNew(ctx, opts.SaveAs)
	}
	b.debouncer.Cancel()
	return b.write(ctx, opts.Force)
}

// Flush runs a pending debounced write now. Without one it does nothing.
func (b *Binding) Flush(ctx context.Context) Result {
	if !b.debouncer.Cancel() {
		return success("nothing to write")
	}
	return b.write(ctx, false)
}

// ReadReload reloads the file when auto-reload is on and the file changed
// since the last known modification time. External content wins over
// pending local changes.
func (b *Binding) ReadReload(ctx context.Context) Result {
	b.mu.Lock()
	enabled := b.autoReload
	b.mu.Unlock()
	if !enabled {
		return success("auto-reload is off")
	}
	return b.reload(ctx, false)
}

// ReloadIfChanged reloads the file when it changed since the last known
// modification time, regardless of auto-reload.
func (b *Binding) ReloadIfChanged(ctx context.Context) Result {
	return b.reload(ctx, false)
}

// ForceReload reloads the file regardless of auto-reload and modification
// time.
func (b *Binding) ForceReload(ctx context.Context) Result {
	return b.reload(ctx, true)
}

// Unbind forgets the file and clears the collection.
func (b *Binding) Unbind() error {
	b.ioMu.Lock()
	b.debouncer.Cancel()
	b.setBinding(nil, 0, StateUnbound)
	b.ioMu.Unlock()

	b.log.Infow("Unbound file")
	return b.store.ReplaceAll(nil)
}

func (b *Binding) reload(ctx context.Context, force bool) Result {
	if err := ctx.Err(); err != nil {
		return failure(err)
	}
	b.ioMu.Lock()
	defer b.ioMu.Unlock()

	b.mu.Lock()
	file, lastKnown := b.file, b.lastKnown
	b.mu.Unlock()
	if file == nil {
		return success("no file bound")
	}

	diskMs, err := file.ModifiedMs()
	if err != nil {
		b.log.Warnw("Reload check failed", "path", file.Path(), "error", err)
		return failure(err)
	}
	if !force && diskMs <= lastKnown {
		return success("up to date")
	}

	snap, err := file.Read()
	if err != nil {
		b.log.Warnw("Reload failed", "path", file.Path(), "error", err)
		return failure(err)
	}
	if dropped := b.debouncer.Cancel(); dropped {
		b.log.Infow("Discarded pending write in favour of external changes", "path", file.Path())
	}
	if err := b.store.Reload(snap.Tasks); err != nil {
		return failure(err)
	}

	b.setBinding(file, snap.ModifiedMs, StateClean)
	b.log.Infow("Reloaded file", "path", file.Path(), "tasks", len(snap.Tasks))
	return transferred("reloaded %d tasks from %s", len(snap.Tasks), filepath.Base(file.Path()))
}

func (b *Binding) write(ctx context.Context, force bool) Result {
	if err := ctx.Err(); err != nil {
		return failure(err)
	}
	b.ioMu.Lock()
	defer b.ioMu.Unlock()

	b.mu.Lock()
	file, lastKnown, confirm := b.file, b.lastKnown, b.confirm
	b.mu.Unlock()
	if file == nil {
		return Result{Outcome: OutcomeIOError, Message: "no file is bound"}
	}

	exists, err := file.Exists()
	if err != nil {
		b.markDirty()
		return failure(err)
	}
	if exists && !force {
		diskMs, err := file.ModifiedMs()
		if err != nil {
			b.markDirty()
			return failure(err)
		}
		if diskMs > lastKnown {
			b.setState(StateConflict)
			msg := fmt.Sprintf("%s changed on disk since it was last read", filepath.Base(file.Path()))
			if confirm == nil {
				b.log.Warnw("Write conflict", "path", file.Path(), "disk_ms", diskMs, "last_known_ms", lastKnown)
				return Result{Outcome: OutcomeConflict, Message: msg}
			}
			if !confirm(ctx, file.Path(), diskMs, lastKnown) {
				b.setState(StatePendingWrite)
				return Result{Outcome: OutcomeCancelled, Message: "overwrite declined"}
			}
		}
	}

	tasks := b.store.Snapshot()
	ms, err := file.Write(tasks, b.clock.Now(), lastKnown)
	if err != nil {
		b.log.Errorw("Write failed", "path", file.Path(), "error", err)
		b.markDirty()
		return failure(err)
	}

	next := StateClean
	if b.debouncer.Pending() {
		next = StatePendingWrite
	}
	b.setBinding(file, ms, next)
	b.log.Debugw("Wrote file", "path", file.Path(), "tasks", len(tasks))
	return transferred("saved %d tasks to %s", len(tasks), filepath.Base(file.Path()))
}

func (b *Binding) onStoreChange(c store.Change) {
	if c.Origin == store.OriginFile {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file == nil {
		return
	}
	b.state = StatePendingWrite
	if b.autoSave {
		b.debouncer.Schedule(b.debouncedWrite)
	}
}

func (b *Binding) debouncedWrite() {
	res := b.write(context.Background(), false)
	if !res.OK() {
		b.log.Warnw("Automatic save did not complete", "outcome", res.Outcome, "message", res.Message)
	}
	if b.onResult != nil {
		b.onResult(res)
	}
}

// setBinding records the binding and reports it to OnBindingChange.
func (b *Binding) setBinding(file *store.TaskFile, ms int64, s State) {
	b.mu.Lock()
	b.file = file
	b.lastKnown = ms
	b.state = s
	b.mu.Unlock()

	if b.onChange == nil {
		return
	}
	path := ""
	if file != nil {
		path = file.Path()
	}
	b.onChange(path, ms)
}

func (b *Binding) setState(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
}

// markDirty records unsynced changes after a failed write, keeping a
// conflict visible.
func (b *Binding) markDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file != nil && b.state != StateConflict {
		b.state = StatePendingWrite
	}
}
