package query

import (
	"math"
	"sort"
	"time"

	"github.com/josephgoksu/litedo/models"
)

// CategoryCounts is the number of tasks in each sidebar bucket.
type CategoryCounts struct {
	All       int `json:"all"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// Get returns the count for one bucket.
func (c CategoryCounts) Get(cat Category) int {
	switch cat {
	case CategoryToday:
		return c.Today
	case CategoryUpcoming:
		return c.Upcoming
	case CategoryOverdue:
		return c.Overdue
	case CategoryCompleted:
		return c.Completed
	}
	return c.All
}

// CountCategories buckets tasks relative to now.
func CountCategories(tasks []models.Task, now time.Time) CategoryCounts {
	today := models.CalendarAt(now).Today
	counts := CategoryCounts{All: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.Completed:
			counts.Completed++
		case t.DueDate == "":
		case t.DueDate == today:
			counts.Today++
		case t.DueDate > today:
			counts.Upcoming++
		default:
			counts.Overdue++
		}
	}
	return counts
}

// TagCount pairs a tag with how many tasks carry it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes a collection.
type Stats struct {
	Total         int        `json:"total"`
	Completed     int        `json:"completed"`
	CompletionPct int        `json:"completionPct"`
	Overdue       int        `json:"overdue"`
	Streak        int        `json:"streak"`
	BusiestDay    string     `json:"busiestDay"`
	AvgPerDay     float64    `json:"avgPerDay"`
	TopTags       []TagCount `json:"topTags,omitempty"`
}

// maxStreakDays bounds the completion streak lookback.
const maxStreakDays = 365

// ComputeStats derives the summary figures relative to now.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	cal := models.CalendarAt(now)
	st := Stats{Total: len(tasks), BusiestDay: "None"}

	completedOn := make(map[string]bool)
	dayCounts := make(map[time.Weekday]int)
	var dayOrder []time.Weekday
	first := ""

	for _, t := range tasks {
		if t.Completed {
			st.Completed++
			if t.CompletedDate != "" {
				completedOn[t.CompletedDate] = true
			}
		}
		if isOverdue(t, cal.Today) {
			st.Overdue++
		}
		created, err := time.ParseInLocation(models.DateLayout, t.CreatedDate, now.Location())
		if err != nil {
			continue
		}
		wd := created.Weekday()
		if _, seen := dayCounts[wd]; !seen {
			dayOrder = append(dayOrder, wd)
		}
		dayCounts[wd]++
		if first == "" || t.CreatedDate < first {
			first = t.CreatedDate
		}
	}

	if st.Total > 0 {
		st.CompletionPct = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < maxStreakDays; i++ {
		if !completedOn[day.AddDate(0, 0, -i).Format(models.DateLayout)] {
			break
		}
		st.Streak++
	}

	// Ties go to the weekday seen last among the leaders.
	best := -1
	for _, wd := range dayOrder {
		if dayCounts[wd] >= best {
			best = dayCounts[wd]
			st.BusiestDay = wd.String()
		}
	}

	if first != "" {
		start, _ := time.ParseInLocation(models.DateLayout, first, now.Location())
		days := int(math.Round(day.Sub(start).Hours()/24)) + 1
		if days < 1 {
			days = 1
		}
		st.AvgPerDay = math.Round(float64(st.Total)/float64(days)*10) / 10
	}

	st.TopTags = TopTags(tasks, 10)
	return st
}

// TopTags returns the n most used tags, ties broken alphabetically.
func TopTags(tasks []models.Task, n int) []TagCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		seen := make(map[string]bool, len(t.Tags))
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				counts[tag]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}
	out := make([]TagCount, 0, len(counts))
	for tag, c := range counts {
		out = append(out, TagCount{Tag: tag, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
