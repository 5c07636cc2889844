package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/litedo/models"
)

// SampleTasks returns the starter collection used on first run and by reset.
func SampleTasks() []models.Task {
	return []models.Task{
		{
			ID:          "1",
			Title:       "Build to-do app in python",
			Description: "Build a useful to-do app for your use.",
			Priority:    models.PriorityHigh,
			DueDate:     "2025-08-12",
			Tags:        []string{"work", "development"},
			CreatedDate: "2025-08-10",
		},
		{
			ID:          "2",
			Title:       "Review project architecture",
			Description: "Prepare resiliency gap analysis",
			Priority:    models.PriorityHigh,
			DueDate:     "2025-08-12",
			Tags:        []string{"work", "autodesk"},
			CreatedDate: "2025-08-11",
		},
		{
			ID:          "3",
			Title:       "Refactor billing module",
			Description: "Fix rounding bug and add tests",
			Priority:    models.PriorityMed,
			DueDate:     "2025-08-15",
			Tags:        []string{"work"},
			CreatedDate: "2025-08-12",
		},
	}
}

var (
	samplePriorities = []models.Priority{models.PriorityLow, models.PriorityMed, models.PriorityHigh}
	sampleTagPool    = []string{
		"work", "home", "personal", "study", "health", "project", "review", "write",
		"plan", "chris", "sam", "team", "urgent", "low-touch", "weekly", "monthly",
	}
	sampleVerbs   = []string{"Refactor", "Write", "Plan", "Review", "Fix", "Design", "Test"}
	sampleObjects = []string{"module", "feature", "doc", "plan", "UI"}
)

// GenerateSample builds count random tasks dated relative to now. The same
// seed yields the same titles, tags and dates; ids are always fresh.
func GenerateSample(count int, now time.Time, seed int64) []models.Task {
	rng := rand.New(rand.NewSource(seed))
	randInt := func(min, max int) int { return min + rng.Intn(max-min+1) }
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateWithin := func(daysBack int) string {
		return day.AddDate(0, 0, -randInt(0, daysBack)).Format(models.DateLayout)
	}

	tasks := make([]models.Task, 0, count)
	for i := 0; i < count; i++ {
		var tags []string
		seen := make(map[string]bool)
		for n := randInt(0, models.MaxTags); n > 0; n-- {
			tag := sampleTagPool[rng.Intn(len(sampleTagPool))]
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}

		var subtasks []models.Subtask
		allDone := true
		for j, n := 0, randInt(0, 4); j < n; j++ {
			done := rng.Float64() < 0.4
			allDone = allDone && done
			subtasks = append(subtasks, models.Subtask{
				Label: fmt.Sprintf("Subtask %d for task %d", j+1, i+1),
				Done:  done,
			})
		}

		verb := sampleVerbs[rng.Intn(len(sampleVerbs))]
		object := sampleObjects[rng.Intn(len(sampleObjects))]
		t := models.Task{
			ID:          uuid.New().String(),
			Title:       fmt.Sprintf("Task #%d: %s %s", i+1, verb, object),
			Description: fmt.Sprintf("Auto-generated sample task %d.", i+1),
			Priority:    samplePriorities[rng.Intn(len(samplePriorities))],
			Tags:        tags,
			CreatedDate: dateWithin(180),
			CreatedTime: fmt.Sprintf("%02d:%02d", randInt(8, 20), randInt(0, 59)),
			Subtasks:    subtasks,
		}
		if rng.Float64() < 0.6 {
			t.DueDate = dateWithin(60)
		}
		switch {
		case len(subtasks) > 0 && allDone:
			t.SetCompleted(true, t.CreatedDate)
		case len(subtasks) == 0 && rng.Float64() < 0.3:
			t.SetCompleted(true, t.CreatedDate)
		}
		tasks = append(tasks, t)
	}
	return tasks
}
