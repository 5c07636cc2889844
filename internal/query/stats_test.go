package query

import (
	"testing"

	"github.com/josephgoksu/litedo/models"
	"github.com/stretchr/testify/assert"
)

func TestCountCategories(t *testing.T) {
	tasks := []models.Task{
		task("today", func(t *models.Task) { t.DueDate = "2025-08-12" }),
		task("later", func(t *models.Task) { t.DueDate = "2025-08-20" }),
		task("late", func(t *models.Task) { t.DueDate = "2025-08-01" }),
		task("done-late", func(t *models.Task) {
			t.DueDate = "2025-08-01"
			t.Completed = true
		}),
		task("undated", nil),
	}
	got := CountCategories(tasks, now)
	assert.Equal(t, CategoryCounts{All: 5, Today: 1, Upcoming: 1, Overdue: 1, Completed: 1}, got)
	assert.Equal(t, 1, got.Get(CategoryOverdue))
	assert.Equal(t, 5, got.Get(CategoryAll))
}

func TestComputeStats(t *testing.T) {
	tasks := []models.Task{
		task("a", func(t *models.Task) {
			t.CreatedDate = "2025-08-12"
			t.SetCompleted(true, "2025-08-12")
			t.Tags = []string{"work", "home"}
		}),
		task("b", func(t *models.Task) {
			t.CreatedDate = "2025-08-11"
			t.SetCompleted(true, "2025-08-11")
			t.Tags = []string{"work"}
		}),
		task("c", func(t *models.Task) {
			t.CreatedDate = "2025-08-11"
			t.DueDate = "2025-08-01"
		}),
		task("d", func(t *models.Task) {
			t.CreatedDate = "2025-08-05"
			t.SetCompleted(true, "2025-08-09")
		}),
	}

	st := ComputeStats(tasks, now)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 3, st.Completed)
	assert.Equal(t, 75, st.CompletionPct)
	assert.Equal(t, 1, st.Overdue)
	assert.Equal(t, 2, st.Streak)
	assert.Equal(t, "Monday", st.BusiestDay)
	assert.InDelta(t, 0.5, st.AvgPerDay, 1e-9)
	assert.Equal(t, []TagCount{{Tag: "work", Count: 2}, {Tag: "home", Count: 1}}, st.TopTags)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, now)
	assert.Equal(t, Stats{BusiestDay: "None"}, st)
}

func TestComputeStats_StreakNeedsToday(t *testing.T) {
	tasks := []models.Task{task("y", func(t *models.Task) { t.SetCompleted(true, "2025-08-11") })}
	assert.Equal(t, 0, ComputeStats(tasks, now).Streak)
}

func TestTopTags_Limit(t *testing.T) {
	tasks := []models.Task{
		task("1", func(t *models.Task) { t.Tags = []string{"b", "a", "c"} }),
		task("2", func(t *models.Task) { t.Tags = []string{"c"} }),
	}
	assert.Equal(t, []TagCount{{Tag: "c", Count: 2}, {Tag: "a", Count: 1}}, TopTags(tasks, 2))
}
