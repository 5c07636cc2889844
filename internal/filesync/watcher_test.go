package filesync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_ClampsInterval(t *testing.T) {
	h := newHarness(t, Options{})
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, 5 * time.Second},
		{time.Second, 2 * time.Second},
		{10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		w := NewWatcher(h.binding, WatcherOptions{Interval: tt.in})
		if got := w.Interval(); got != tt.want {
			t.Errorf("Interval(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatcher_PollsForExternalChanges(t *testing.T) {
	h := newHarness(t, Options{AutoReload: true})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	h.writeExternal(t, boundPath, "theirs")

	w := NewWatcher(h.binding, WatcherOptions{Clock: h.clock})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return h.clock.Pending() == 1 }, time.Second, 5*time.Millisecond)
	h.clock.Advance(w.Interval())

	require.Eventually(t, func() bool { return h.store.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "theirs", h.store.Snapshot()[0].Title)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_NotifiesOnOSFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	osfs := afero.NewOsFs()

	s := store.NewMemoryStore(nil)
	b := NewBinding(s, Options{FS: osfs, AutoReload: true})
	t.Cleanup(b.Close)
	require.True(t, b.BindNew(context.Background(), path).OK())

	w := NewWatcher(b, WatcherOptions{Interval: time.Hour, Notify: true})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	tasks := []models.Task{models.NewTask("x1", "from editor", time.Now())}
	_, err := store.NewTaskFile(osfs, path).Write(tasks, time.Now(), 0)
	require.NoError(t, err)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	require.Eventually(t, func() bool { return s.Len() == 1 }, 5*time.Second, 20*time.Millisecond)
}
