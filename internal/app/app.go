// Package app is the composition root. It wires the cache, task store,
// preference stores, file binding and telemetry together and exposes the
// operations the CLI calls. CLI commands stay thin adapters over it.
package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/josephgoksu/litedo/internal/filesync"
	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/internal/query"
	"github.com/josephgoksu/litedo/internal/telemetry"
	"github.com/josephgoksu/litedo/internal/util"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/afero"
)

// Options configure New. Zero values select the production defaults.
type Options struct {
	// RootDir holds the cache database.
	RootDir string
	// CacheFile is relative to RootDir unless absolute. ":memory:" keeps
	// everything in process.
	CacheFile string
	FS        afero.Fs
	Clock     filesync.Clock
	Debounce  time.Duration
	// ReloadInterval is the auto-reload interval until the user sets one.
	ReloadInterval time.Duration
	Logger         *logger.Logger
	Confirm        filesync.ConfirmFunc
	Telemetry      telemetry.Client
	// NewID overrides task id generation (tests).
	NewID func() string
}

// App holds the wired dependencies for one process.
type App struct {
	Store     *store.MemoryStore
	Prefs     *store.PrefStore
	Presets   *store.PresetStore
	Binding   *filesync.Binding
	Telemetry telemetry.Client

	cache store.Cache
	fs    afero.Fs
	clock filesync.Clock
	log   *logger.Logger

	mu    sync.Mutex
	prefs store.Preferences
}

// New opens the cache, restores the collection and the file binding. A
// cache that cannot be opened degrades to an in-memory one; a missing or
// corrupt task list is replaced by the sample tasks.
func New(opts Options) (*App, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = filesync.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewNoopClient()
	}
	log := opts.Logger.WithComponent("app")

	cache := openCache(opts, log)
	prefStore := store.NewPrefStore(cache)
	prefStore.SetDefaultReloadMs(int(opts.ReloadInterval.Milliseconds()))
	prefs, err := prefStore.Load()
	if err != nil {
		log.Warnw("Preferences unavailable, using defaults", "error", err)
		prefs = store.DefaultPreferences()
	}

	storeOpts := []store.Option{
		store.WithLogger(opts.Logger),
		store.WithClock(opts.Clock.Now),
	}
	if opts.NewID != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.NewID))
	}
	ts := store.NewMemoryStore(cache, storeOpts...)
	if err := restoreTasks(ts, cache, log); err != nil {
		return nil, err
	}

	a := &App{
		Store:     ts,
		Prefs:     prefStore,
		Presets:   store.NewPresetStore(cache),
		Telemetry: opts.Telemetry,
		cache:     cache,
		fs:        opts.FS,
		clock:     opts.Clock,
		log:       log,
		prefs:     prefs,
	}
	a.Binding = filesync.NewBinding(ts, filesync.Options{
		FS:              opts.FS,
		Clock:           opts.Clock,
		Debounce:        opts.Debounce,
		AutoSave:        prefs.AutoSave,
		AutoReload:      prefs.AutoReload,
		Confirm:         opts.Confirm,
		Logger:          opts.Logger,
		OnBindingChange: a.saveBinding,
		OnResult:        a.reportResult,
	})
	if prefs.LastFilePath != "" {
		a.Binding.Resume(prefs.LastFilePath, prefs.LastKnownModifiedMs, prefs.PendingWrite)
		logger.SetSyncState(prefs.LastFilePath, ts.Len())
	}
	return a, nil
}

func openCache(opts Options, log *logger.Logger) store.Cache {
	name := opts.CacheFile
	if name == "" {
		name = "cache.db"
	}
	path := name
	if name != ":memory:" && !filepath.IsAbs(name) {
		path = filepath.Join(opts.RootDir, name)
	}
	c, err := store.OpenSQLiteCache(path)
	if err != nil {
		log.Warnw("Cache database unavailable, changes will not outlive this process", "path", path, "error", err)
		return store.NewMemoryCache()
	}
	return c
}

func restoreTasks(ts *store.MemoryStore, cache store.Cache, log *logger.Logger) error {
	_, present, err := cache.Get(store.KeyTasks)
	if err != nil {
		log.Warnw("Read cached tasks failed", "error", err)
	}
	if present {
		tasks, err := store.LoadCachedTasks(cache)
		if err == nil {
			err = ts.Load(tasks)
		}
		if err == nil {
			return nil
		}
		log.Warnw("Cached tasks are corrupt, restoring sample tasks", "error", err)
	}
	return ts.Reset(store.SampleTasks())
}

// Preferences returns the current preferences.
func (a *App) Preferences() store.Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// SetPreference validates and stores one preference and applies it to the
// running binding.
func (a *App) SetPreference(key, value string) (store.Preferences, error) {
	if err := a.Prefs.Set(key, value); err != nil {
		return a.Preferences(), err
	}
	prefs, err := a.Prefs.Load()
	if err != nil {
		return a.Preferences(), err
	}
	a.mu.Lock()
	a.prefs = prefs
	a.mu.Unlock()
	a.Binding.SetAutoSave(prefs.AutoSave)
	a.Binding.SetAutoReload(prefs.AutoReload)
	return prefs, nil
}

// ResetPreferences restores the default settings and applies them to the
// running binding.
func (a *App) ResetPreferences() (store.Preferences, error) {
	prefs, err := a.Prefs.Reset()
	if err != nil {
		return a.Preferences(), err
	}
	a.mu.Lock()
	a.prefs = prefs
	a.mu.Unlock()
	a.Binding.SetAutoSave(prefs.AutoSave)
	a.Binding.SetAutoReload(prefs.AutoReload)
	return prefs, nil
}

// Start runs the startup file check: with reopen or auto-reload on, a bound
// file that changed since the last run is reloaded.
func (a *App) Start(ctx context.Context) filesync.Result {
	prefs := a.Preferences()
	if a.Binding.Path() == "" || !(prefs.Reopen || prefs.AutoReload) {
		return filesync.Result{Outcome: filesync.OutcomeSuccess}
	}
	return a.Binding.ReloadIfChanged(ctx)
}

// Close writes any pending change to the bound file and releases resources.
func (a *App) Close(ctx context.Context) (filesync.Result, error) {
	res := a.Binding.Flush(ctx)
	a.Binding.Close()
	if a.Binding.Path() != "" {
		pending := a.Binding.Unsynced()
		a.mu.Lock()
		a.prefs.PendingWrite = pending
		a.mu.Unlock()
		if err := a.Prefs.SavePendingWrite(pending); err != nil {
			a.log.Warnw("Persist pending write failed", "error", err)
		}
	}
	logger.SetSyncState(a.Binding.Path(), a.Store.Len())
	if err := a.Telemetry.Close(); err != nil {
		a.log.Debugw("Telemetry close failed", "error", err)
	}
	return res, a.cache.Close()
}

// Watch reloads the bound file whenever it changes on disk until ctx is
// done. It polls at the auto-reload interval and, with notify, also reacts
// to filesystem events.
func (a *App) Watch(ctx context.Context, notify bool, onResult func(filesync.Result)) error {
	prefs := a.Preferences()
	w := filesync.NewWatcher(a.Binding, filesync.WatcherOptions{
		Interval: time.Duration(prefs.AutoReloadMs) * time.Millisecond,
		Clock:    a.clock,
		Notify:   notify,
		Logger:   a.log,
		OnResult: onResult,
	})
	return w.Run(ctx)
}

// Now is the reference time for views and stats.
func (a *App) Now() time.Time { return a.clock.Now() }

// ResolveID resolves a full task id or unique prefix.
func (a *App) ResolveID(ref string) (string, error) {
	return util.ResolveID(a.ids(), ref)
}

// ResolveIDs resolves several references.
func (a *App) ResolveIDs(refs []string) ([]string, error) {
	return util.ResolveIDs(a.ids(), refs)
}

func (a *App) ids() []string {
	snap := a.Store.Snapshot()
	ids := make([]string, len(snap))
	for i, t := range snap {
		ids[i] = t.ID
	}
	return ids
}

// View runs the query engine over the current snapshot.
func (a *App) View(opts query.ViewOptions) ([]models.Task, error) {
	if opts.Now.IsZero() {
		opts.Now = a.Now()
	}
	return query.FilteredView(a.Store.Snapshot(), opts)
}

// CategoryCounts counts the sidebar buckets.
func (a *App) CategoryCounts() query.CategoryCounts {
	return query.CountCategories(a.Store.Snapshot(), a.Now())
}

// Stats computes the statistics summary.
func (a *App) Stats() query.Stats {
	return query.ComputeStats(a.Store.Snapshot(), a.Now())
}

// TagCounts lists tags by usage.
func (a *App) TagCounts() []query.TagCount {
	return query.TopTags(a.Store.Snapshot(), 0)
}

func (a *App) saveBinding(path string, lastKnownMs int64) {
	a.mu.Lock()
	a.prefs.LastFilePath = path
	a.prefs.LastFileName = ""
	if path != "" {
		a.prefs.LastFileName = filepath.Base(path)
	}
	a.prefs.LastKnownModifiedMs = lastKnownMs
	a.mu.Unlock()

	if err := a.Prefs.SaveBinding(path, lastKnownMs); err != nil {
		a.log.Warnw("Persist file binding failed", "path", path, "error", err)
	}
}

func (a *App) reportResult(res filesync.Result) {
	if res.Outcome == filesync.OutcomeConflict || res.Outcome == filesync.OutcomeCancelled {
		a.Telemetry.Track(telemetry.EventFileConflict, telemetry.Properties{"outcome": string(res.Outcome)})
	}
}
