package filesync

import (
	"context"
	"testing"
	"time"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boundPath = "/data/tasks.json"

type harness struct {
	fs      afero.Fs
	clock   *FakeClock
	store   *store.MemoryStore
	binding *Binding
	results []Result
	changes []string
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{fs: afero.NewMemMapFs(), clock: NewFakeClock(epoch)}
	h.store = store.NewMemoryStore(nil, store.WithClock(func() time.Time { return epoch }))
	opts.FS = h.fs
	opts.Clock = h.clock
	opts.OnResult = func(r Result) { h.results = append(h.results, r) }
	opts.OnBindingChange = func(path string, _ int64) { h.changes = append(h.changes, path) }
	h.binding = NewBinding(h.store, opts)
	t.Cleanup(h.binding.Close)
	return h
}

func (h *harness) add(t *testing.T, title string) {
	t.Helper()
	_, _, err := h.store.Create(store.NewTaskInput{Title: title})
	require.NoError(t, err)
}

func (h *harness) onDisk(t *testing.T, path string) []string {
	t.Helper()
	snap, err := store.NewTaskFile(h.fs, path).Read()
	require.NoError(t, err)
	titles := make([]string, 0, len(snap.Tasks))
	for _, task := range snap.Tasks {
		titles = append(titles, task.Title)
	}
	return titles
}

// touch moves the file's modification time an hour ahead, as an external
// editor saving later would.
func (h *harness) touch(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	require.NoError(t, h.fs.Chtimes(path, future, future))
}

func (h *harness) writeExternal(t *testing.T, path string, titles ...string) {
	t.Helper()
	tasks := make([]models.Task, 0, len(titles))
	for i, title := range titles {
		tasks = append(tasks, models.NewTask(string(rune('a'+i)), title, epoch))
	}
	_, err := store.NewTaskFile(h.fs, path).Write(tasks, epoch, 0)
	require.NoError(t, err)
	h.touch(t, path)
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestBinding_BindNewWritesCollection(t *testing.T) {
	h := newHarness(t, Options{})
	h.add(t, "first")

	res := h.binding.BindNew(context.Background(), boundPath)
	require.True(t, res.OK(), res.String())

	assert.Equal(t, StateClean, h.binding.State())
	assert.Equal(t, boundPath, h.binding.Path())
	assert.Equal(t, []string{"first"}, h.onDisk(t, boundPath))

	ms, err := store.NewTaskFile(h.fs, boundPath).ModifiedMs()
	require.NoError(t, err)
	assert.Equal(t, ms, h.binding.LastKnownModified())
	assert.Equal(t, []string{boundPath}, h.changes)
}

func TestBinding_DebouncedAutoSave(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

	h.add(t, "one")
	h.clock.Advance(100 * time.Millisecond)
	h.add(t, "two")
	h.clock.Advance(100 * time.Millisecond)
	h.add(t, "three")

	assert.Equal(t, StatePendingWrite, h.binding.State())
	assert.Empty(t, h.onDisk(t, boundPath))

	h.clock.Advance(DefaultDebounce)
	require.Len(t, h.results, 1)
	assert.Equal(t, OutcomeSuccess, h.results[0].Outcome)
	assert.Equal(t, []string{"three", "two", "one"}, h.onDisk(t, boundPath))
	assert.Equal(t, StateClean, h.binding.State())
}

func TestBinding_NoAutoSaveMarksPending(t *testing.T) {
	h := newHarness(t, Options{})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

	h.add(t, "one")
	assert.Equal(t, StatePendingWrite, h.binding.State())
	assert.False(t, h.binding.WritePending())

	h.clock.Advance(time.Second)
	assert.Empty(t, h.onDisk(t, boundPath))
}

func TestBinding_UnboundChangesDoNothing(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	h.add(t, "one")

	assert.Equal(t, StateUnbound, h.binding.State())
	assert.Equal(t, 0, h.clock.Pending())

	res := h.binding.WriteNow(context.Background(), WriteOptions{})
	assert.Equal(t, OutcomeIOError, res.Outcome)
}

func TestBinding_ConflictWithoutConfirm(t *testing.T) {
	h := newHarness(t, Options{})
	h.add(t, "mine")
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	h.add(t, "unsaved")
	h.touch(t, boundPath)

	res := h.binding.WriteNow(context.Background(), WriteOptions{})
	assert.Equal(t, OutcomeConflict, res.Outcome)
	assert.Equal(t, StateConflict, h.binding.State())
	assert.Equal(t, []string{"mine"}, h.onDisk(t, boundPath))
}

func TestBinding_ConflictDeclined(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	asked := 0
	h.binding.SetConfirm(func(context.Context, string, int64, int64) bool {
		asked++
		return false
	})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	before := h.binding.LastKnownModified()

	h.add(t, "unsaved")
	h.touch(t, boundPath)
	h.clock.Advance(DefaultDebounce)

	require.Len(t, h.results, 1)
	assert.Equal(t, OutcomeCancelled, h.results[0].Outcome)
	assert.Equal(t, 1, asked)
	assert.Equal(t, StatePendingWrite, h.binding.State())
	assert.Equal(t, before, h.binding.LastKnownModified())
	assert.False(t, h.binding.WritePending())
	assert.Empty(t, h.onDisk(t, boundPath))
}

func TestBinding_ConflictConfirmed(t *testing.T) {
	h := newHarness(t, Options{})
	h.binding.SetConfirm(func(context.Context, string, int64, int64) bool { return true })
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	h.add(t, "mine")
	h.touch(t, boundPath)

	res := h.binding.WriteNow(context.Background(), WriteOptions{})
	require.True(t, res.OK(), res.String())
	assert.Equal(t, []string{"mine"}, h.onDisk(t, boundPath))
	assert.Equal(t, StateClean, h.binding.State())

	ms, err := store.NewTaskFile(h.fs, boundPath).ModifiedMs()
	require.NoError(t, err)
	assert.Equal(t, ms, h.binding.LastKnownModified())
}

func TestBinding_ForceSkipsConflictCheck(t *testing.T) {
	h := newHarness(t, Options{})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	h.add(t, "mine")
	h.touch(t, boundPath)

	res := h.binding.WriteNow(context.Background(), WriteOptions{Force: true})
	require.True(t, res.OK(), res.String())
	assert.Equal(t, []string{"mine"}, h.onDisk(t, boundPath))
}

func TestBinding_ReloadDiscardsPendingWrite(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true, AutoReload: true})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

	h.add(t, "local")
	require.True(t, h.binding.WritePending())
	h.writeExternal(t, boundPath, "theirs 1", "theirs 2")

	res := h.binding.ReadReload(context.Background())
	require.True(t, res.OK(), res.String())
	assert.Equal(t, []string{"theirs 1", "theirs 2"}, titles(h.store.Snapshot()))
	assert.Equal(t, StateClean, h.binding.State())
	assert.False(t, h.binding.WritePending())

	h.clock.Advance(time.Second)
	assert.Empty(t, h.results)
	assert.Equal(t, []string{"theirs 1", "theirs 2"}, h.onDisk(t, boundPath))
}

func TestBinding_ReadReloadSkips(t *testing.T) {
	t.Run("up to date", func(t *testing.T) {
		h := newHarness(t, Options{AutoReload: true})
		h.add(t, "mine")
		require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

		res := h.binding.ReadReload(context.Background())
		assert.True(t, res.OK())
		assert.Equal(t, "up to date", res.Message)
	})

	t.Run("auto-reload off", func(t *testing.T) {
		h := newHarness(t, Options{})
		require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
		h.writeExternal(t, boundPath, "theirs")

		res := h.binding.ReadReload(context.Background())
		assert.True(t, res.OK())
		assert.Empty(t, h.store.Snapshot())

		res = h.binding.ForceReload(context.Background())
		require.True(t, res.OK(), res.String())
		assert.Equal(t, []string{"theirs"}, titles(h.store.Snapshot()))
	})
}

func TestBinding_ReloadFormatErrorKeepsCollection(t *testing.T) {
	h := newHarness(t, Options{AutoReload: true})
	h.add(t, "mine")
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	before := h.binding.LastKnownModified()

	require.NoError(t, afero.WriteFile(h.fs, boundPath, []byte("{not json"), 0o644))
	h.touch(t, boundPath)

	res := h.binding.ReadReload(context.Background())
	assert.Equal(t, OutcomeFormatError, res.Outcome)
	assert.Equal(t, []string{"mine"}, titles(h.store.Snapshot()))
	assert.Equal(t, before, h.binding.LastKnownModified())
}

func TestBinding_BindExisting(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	h.add(t, "mine")
	h.writeExternal(t, boundPath, "theirs")

	res := h.binding.BindExisting(context.Background(), boundPath)
	require.True(t, res.OK(), res.String())
	assert.Equal(t, []string{"theirs"}, titles(h.store.Snapshot()))
	assert.Equal(t, StateClean, h.binding.State())
	assert.Equal(t, 0, h.clock.Pending())

	ms, err := store.NewTaskFile(h.fs, boundPath).ModifiedMs()
	require.NoError(t, err)
	assert.Equal(t, ms, h.binding.LastKnownModified())
}

func TestBinding_BindExistingMissingFile(t *testing.T) {
	h := newHarness(t, Options{})
	h.add(t, "mine")

	res := h.binding.BindExisting(context.Background(), "/nope.json")
	assert.Equal(t, OutcomeIOError, res.Outcome)
	assert.Equal(t, StateUnbound, h.binding.State())
	assert.Equal(t, []string{"mine"}, titles(h.store.Snapshot()))
}

func TestBinding_Resume(t *testing.T) {
	h := newHarness(t, Options{})
	h.writeExternal(t, boundPath, "theirs")
	ms, err := store.NewTaskFile(h.fs, boundPath).ModifiedMs()
	require.NoError(t, err)

	h.binding.Resume(boundPath, ms-1000, false)
	assert.Equal(t, StateClean, h.binding.State())
	res := h.binding.WriteNow(context.Background(), WriteOptions{})
	assert.Equal(t, OutcomeConflict, res.Outcome)

	h.binding.Resume(boundPath, ms, false)
	res = h.binding.WriteNow(context.Background(), WriteOptions{})
	assert.True(t, res.OK(), res.String())
}

func TestBinding_ResumePending(t *testing.T) {
	h := newHarness(t, Options{})
	h.writeExternal(t, boundPath, "theirs")
	ms, err := store.NewTaskFile(h.fs, boundPath).ModifiedMs()
	require.NoError(t, err)

	h.binding.Resume(boundPath, ms, true)
	assert.Equal(t, StatePendingWrite, h.binding.State())
	assert.True(t, h.binding.Unsynced())

	res := h.binding.WriteNow(context.Background(), WriteOptions{})
	require.True(t, res.OK(), res.String())
	assert.Equal(t, StateClean, h.binding.State())
	assert.False(t, h.binding.Unsynced())
}

func TestBinding_SaveAsRebinds(t *testing.T) {
	h := newHarness(t, Options{})
	h.add(t, "mine")
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

	res := h.binding.WriteNow(context.Background(), WriteOptions{SaveAs: "/data/copy.yaml"})
	require.True(t, res.OK(), res.String())
	assert.Equal(t, "/data/copy.yaml", h.binding.Path())
	assert.Equal(t, []string{"mine"}, h.onDisk(t, "/data/copy.yaml"))
}

func TestBinding_FlushWritesPending(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())

	res := h.binding.Flush(context.Background())
	assert.Equal(t, "nothing to write", res.Message)

	h.add(t, "one")
	res = h.binding.Flush(context.Background())
	require.True(t, res.OK(), res.String())
	assert.Equal(t, []string{"one"}, h.onDisk(t, boundPath))
	assert.Equal(t, 0, h.clock.Pending())
}

func TestBinding_UnbindClearsCollection(t *testing.T) {
	h := newHarness(t, Options{AutoSave: true})
	h.add(t, "mine")
	require.True(t, h.binding.BindNew(context.Background(), boundPath).OK())
	h.add(t, "pending")

	require.NoError(t, h.binding.Unbind())
	assert.Equal(t, StateUnbound, h.binding.State())
	assert.Empty(t, h.binding.Path())
	assert.Zero(t, h.store.Len())
	assert.Equal(t, 0, h.clock.Pending())
	assert.Equal(t, []string{boundPath, ""}, h.changes)
	assert.Equal(t, []string{"mine"}, h.onDisk(t, boundPath))
}
