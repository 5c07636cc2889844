package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 12, 9, 30, 0, 0, time.Local)

func setupTestStore(t *testing.T, cache Cache) *MemoryStore {
	t.Helper()
	n := 0
	return NewMemoryStore(cache,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
	)
}

func TestMemoryStore_CreateInsertsAtFront(t *testing.T) {
	s := setupTestStore(t, nil)

	first, _, err := s.Create(NewTaskInput{Title: "first"})
	require.NoError(t, err)
	second, _, err := s.Create(NewTaskInput{
		Title:    "  second  ",
		Priority: "high",
		DueDate:  "2025-08-15",
		Tags:     []string{" work ", "", "home"},
		Subtasks: []string{"a", " ", "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, models.PriorityMed, first.Priority)
	assert.Equal(t, "2025-08-12", first.CreatedDate)
	assert.Equal(t, "09:30", first.CreatedTime)
	assert.False(t, first.Completed)

	assert.Equal(t, "second", second.Title)
	assert.Equal(t, models.PriorityHigh, second.Priority)
	assert.Equal(t, []string{"work", "home"}, second.Tags)
	assert.Equal(t, []models.Subtask{{Label: "a"}, {Label: "b"}}, second.Subtasks)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "t2", snap[0].ID)
	assert.Equal(t, "t1", snap[1].ID)
}

func TestMemoryStore_CreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   NewTaskInput
	}{
		{name: "empty title", in: NewTaskInput{Title: ""}},
		{name: "blank title", in: NewTaskInput{Title: "   \t"}},
		{name: "bad priority", in: NewTaskInput{Title: "x", Priority: "urgent"}},
		{name: "bad due date", in: NewTaskInput{Title: "x", DueDate: "12/08/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t, nil)
			_, _, err := s.Create(tt.in)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestMemoryStore_CreateTruncatesTags(t *testing.T) {
	s := setupTestStore(t, nil)
	task, res, err := s.Create(NewTaskInput{Title: "x", Tags: []string{"a", "b", "c", "d", "e", "f", "g"}})
	require.NoError(t, err)
	assert.True(t, res.TagsTruncated)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, task.Tags)
}

func TestMemoryStore_UpdateKeepsSubtaskFlagsByPosition(t *testing.T) {
	s := setupTestStore(t, nil)
	task, _, err := s.Create(NewTaskInput{Title: "x", Subtasks: []string{"a", "b", "c"}})
	require.NoError(t, err)
	_, err = s.ToggleSubtask(task.ID, 0)
	require.NoError(t, err)
	_, err = s.ToggleSubtask(task.ID, 2)
	require.NoError(t, err)

	edits := [][]string{
		{"a", "b"},
		{"a", "b", "c", "d"},
		{},
		{"z"},
	}
	wantDone := [][]bool{
		{true, false},
		{true, false, false, false},
		nil,
		{false},
	}
	for i, labels := range edits {
		labels := labels
		updated, _, err := s.Update(task.ID, Patch{Subtasks: &labels})
		require.NoError(t, err)
		require.Len(t, updated.Subtasks, len(labels), "edit %d", i)
		for j, st := range updated.Subtasks {
			if st.Done != wantDone[i][j] {
				t.Errorf("edit %d subtask %d: got done=%v, want %v", i, j, st.Done, wantDone[i][j])
			}
		}
	}
}

func TestMemoryStore_UpdateValidation(t *testing.T) {
	s := setupTestStore(t, nil)
	task, _, err := s.Create(NewTaskInput{Title: "keep"})
	require.NoError(t, err)

	blank := "  "
	_, _, err = s.Update(task.ID, Patch{Title: &blank})
	assert.ErrorIs(t, err, types.ErrValidation)

	bad := models.Priority("someday")
	_, _, err = s.Update(task.ID, Patch{Priority: &bad})
	assert.ErrorIs(t, err, types.ErrValidation)

	title := "renamed"
	_, _, err = s.Update("missing", Patch{Title: &title})
	assert.ErrorIs(t, err, types.ErrNotFound)

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestMemoryStore_UpdateDoesNotRederiveCompletion(t *testing.T) {
	s := setupTestStore(t, nil)
	task, _, err := s.Create(NewTaskInput{Title: "x", Subtasks: []string{"a"}})
	require.NoError(t, err)
	done, err := s.ToggleSubtask(task.ID, 0)
	require.NoError(t, err)
	require.True(t, done.Completed)

	labels := []string{"a", "b"}
	updated, _, err := s.Update(task.ID, Patch{Subtasks: &labels})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "2025-08-12", updated.CompletedDate)
}

func TestMemoryStore_ToggleCompleted(t *testing.T) {
	s := setupTestStore(t, nil)
	task, _, err := s.Create(NewTaskInput{Title: "x"})
	require.NoError(t, err)

	done, err := s.ToggleCompleted(task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "2025-08-12", done.CompletedDate)

	undone, err := s.ToggleCompleted(task.ID)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Empty(t, undone.CompletedDate)

	_, err = s.ToggleCompleted("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemoryStore_ToggleSubtaskDerivesCompletion(t *testing.T) {
	s := setupTestStore(t, nil)
	task, _, err := s.Create(NewTaskInput{Title: "x", Subtasks: []string{"a", "b"}})
	require.NoError(t, err)

	got, err := s.ToggleSubtask(task.ID, 0)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	got, err = s.ToggleSubtask(task.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "2025-08-12", got.CompletedDate)

	got, err = s.ToggleSubtask(task.ID, 0)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Empty(t, got.CompletedDate)

	_, err = s.ToggleSubtask(task.ID, 5)
	assert.ErrorIs(t, err, types.ErrValidation)
	after, _ := s.Get(task.ID)
	assert.Len(t, after.Subtasks, 2)
}

func TestMemoryStore_DeleteMany(t *testing.T) {
	s := setupTestStore(t, nil)
	for i := 0; i < 4; i++ {
		_, _, err := s.Create(NewTaskInput{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
	}

	n, err := s.DeleteMany([]string{"t1", "t3", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	_, err = s.Get("t1")
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.Delete("t1"), types.ErrNotFound)
	assert.NoError(t, s.Delete("t2"))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_CompleteMany(t *testing.T) {
	s := setupTestStore(t, nil)
	for i := 0; i < 3; i++ {
		_, _, err := s.Create(NewTaskInput{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
	}
	_, err := s.ToggleCompleted("t1")
	require.NoError(t, err)

	n, err := s.CompleteMany([]string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t2, _ := s.Get("t2")
	assert.True(t, t2.Completed)
	t3, _ := s.Get("t3")
	assert.False(t, t3.Completed)
}

func TestMemoryStore_TagsAndRemoval(t *testing.T) {
	s := setupTestStore(t, nil)
	_, _, _ = s.Create(NewTaskInput{Title: "a", Tags: []string{"work", "home"}})
	_, _, _ = s.Create(NewTaskInput{Title: "b", Tags: []string{"work"}})
	_, _, _ = s.Create(NewTaskInput{Title: "c"})

	assert.Equal(t, []string{"home", "work"}, s.AllTags())
	assert.Equal(t, map[string]int{"work": 2, "home": 1}, s.TagUsageCounts())

	n, err := s.RemoveTag("work")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"home"}, s.AllTags())

	b, _ := s.Get("t2")
	assert.Nil(t, b.Tags)
}

func TestMemoryStore_ReplaceAllRejectsBadIDs(t *testing.T) {
	s := setupTestStore(t, nil)
	_, _, err := s.Create(NewTaskInput{Title: "original"})
	require.NoError(t, err)

	err = s.ReplaceAll([]models.Task{{ID: "a", Title: "x"}, {ID: "a", Title: "y"}})
	assert.ErrorIs(t, err, types.ErrFormat)
	err = s.ReplaceAll([]models.Task{{ID: "", Title: "x"}})
	assert.ErrorIs(t, err, types.ErrFormat)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "original", snap[0].Title)
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	s := setupTestStore(t, nil)
	_, _, err := s.Create(NewTaskInput{Title: "x", Tags: []string{"a"}})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Title = "changed"
	snap[0].Tags[0] = "changed"

	got, _ := s.Get("t1")
	assert.Equal(t, "x", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestMemoryStore_ObserversSeeOrigin(t *testing.T) {
	s := setupTestStore(t, nil)
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	_, _, _ = s.Create(NewTaskInput{Title: "x"})
	_ = s.Reload([]models.Task{{ID: "f1", Title: "from file"}})
	_, _ = s.DeleteMany([]string{"nothing"})

	require.Len(t, changes, 2)
	assert.Equal(t, Change{Op: OpCreate, IDs: []string{"t1"}, Origin: OriginLocal}, changes[0])
	assert.Equal(t, Change{Op: OpReload, IDs: []string{"f1"}, Origin: OriginFile}, changes[1])

	unsubscribe()
	_, _, _ = s.Create(NewTaskInput{Title: "y"})
	assert.Len(t, changes, 2)
}

func TestMemoryStore_LoadHasNoSideEffects(t *testing.T) {
	cache := NewMemoryCache()
	s := setupTestStore(t, cache)
	called := false
	s.Subscribe(func(Change) { called = true })

	require.NoError(t, s.Load(SampleTasks()))
	assert.Equal(t, 3, s.Len())
	assert.False(t, called)
	_, ok, _ := cache.Get(KeyTasks)
	assert.False(t, ok)
}

func TestMemoryStore_PersistsToCache(t *testing.T) {
	cache := NewMemoryCache()
	s := setupTestStore(t, cache)
	_, _, err := s.Create(NewTaskInput{Title: "x", Tags: []string{"a"}, Subtasks: []string{"one"}})
	require.NoError(t, err)
	_, err = s.ToggleSubtask("t1", 0)
	require.NoError(t, err)

	loaded, err := LoadCachedTasks(cache)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded)

	_, err = s.DeleteMany([]string{"t1"})
	require.NoError(t, err)
	raw, ok, _ := cache.Get(KeyTasks)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

type failingCache struct{ *MemoryCache }

func (failingCache) Set(string, string) error { return errors.New("quota exceeded") }

func TestMemoryStore_CacheFailureIsSwallowed(t *testing.T) {
	s := setupTestStore(t, failingCache{NewMemoryCache()})

	task, _, err := s.Create(NewTaskInput{Title: "still works"})
	require.NoError(t, err)
	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "still works", got.Title)
}

func TestLoadCachedTasks_Corrupt(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(KeyTasks, "{not json"))

	_, err := LoadCachedTasks(cache)
	assert.ErrorIs(t, err, types.ErrFormat)

	tasks, err := LoadCachedTasks(NewMemoryCache())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
