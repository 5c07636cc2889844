package filesync

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/store"
)

// WatcherOptions configure a Watcher.
type WatcherOptions struct {
	// Interval between polls; clamped to the minimum reload interval.
	Interval time.Duration
	Clock    Clock
	// Notify adds filesystem notifications on top of polling. Only useful
	// on the OS filesystem.
	Notify   bool
	Logger   *logger.Logger
	OnResult func(Result)
}

// Watcher drives Binding.ReadReload from a poll interval and, optionally,
// filesystem notifications for the bound file.
type Watcher struct {
	binding  *Binding
	interval time.Duration
	clock    Clock
	notify   bool
	log      *logger.Logger
	onResult func(Result)
}

// NewWatcher returns a Watcher for b.
func NewWatcher(b *Binding, opts WatcherOptions) *Watcher {
	floor := time.Duration(store.MinReloadMs) * time.Millisecond
	if opts.Interval <= 0 {
		opts.Interval = time.Duration(store.DefaultReloadMs) * time.Millisecond
	}
	if opts.Interval < floor {
		opts.Interval = floor
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Watcher{
		binding:  b,
		interval: opts.Interval,
		clock:    opts.Clock,
		notify:   opts.Notify,
		log:      opts.Logger.WithComponent("watcher"),
		onResult: opts.OnResult,
	}
}

// Interval returns the effective poll interval.
func (w *Watcher) Interval() time.Duration { return w.interval }

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	ticks := make(chan struct{}, 1)
	arm := func() {
		w.clock.AfterFunc(w.interval, func() {
			select {
			case ticks <- struct{}{}:
			default:
			}
		})
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.notify {
		if fw, err := w.watchDir(); err != nil {
			w.log.Warnw("File notifications unavailable, polling only", "error", err)
		} else {
			defer fw.Close()
			events, errs = fw.Events, fw.Errors
		}
	}

	arm()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			w.check(ctx)
			arm()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if w.relevant(ev) {
				w.check(ctx)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Warnw("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) watchDir() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path := w.binding.Path()
	if path == "" {
		return fw, nil
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return fw, nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	path := w.binding.Path()
	if path == "" || filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Chmod)
}

func (w *Watcher) check(ctx context.Context) {
	res := w.binding.ReadReload(ctx)
	if !res.OK() {
		w.log.Warnw("Reload did not complete", "outcome", res.Outcome, "message", res.Message)
	}
	if w.onResult != nil {
		w.onResult(res)
	}
}
