package query

import (
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

// Category is one of the mutually exclusive sidebar buckets.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryToday     Category = "today"
	CategoryUpcoming  Category = "upcoming"
	CategoryOverdue   Category = "overdue"
	CategoryCompleted Category = "completed"
)

// Categories lists every bucket in display order.
var Categories = []Category{CategoryAll, CategoryToday, CategoryUpcoming, CategoryOverdue, CategoryCompleted}

// ParseCategory accepts any casing; empty means all.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryAll, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", types.ValidationError("invalid category %q: must be one of all, today, upcoming, overdue, completed", s)
}

// SortKey selects the ordering of a view.
type SortKey string

const (
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
	SortCreated  SortKey = "createdDate"
)

// ParseSortKey accepts priority, dueDate/due and createdDate/created in any
// casing; empty means createdDate.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "createddate", "created":
		return SortCreated, nil
	case "priority":
		return SortPriority, nil
	case "duedate", "due":
		return SortDueDate, nil
	}
	return "", types.ValidationError("invalid sort key %q: must be priority, dueDate or createdDate", s)
}

// ViewOptions are the inputs of FilteredView.
type ViewOptions struct {
	Search        string
	Filters       models.FilterConfig
	ActiveTag     string
	HideCompleted bool
	Category      Category
	Sort          SortKey
	// Now anchors every date-relative criterion. Zero means time.Now().
	Now time.Time
}

// FilteredView applies, in order: the search string, the active tag, the
// completion visibility flag, the category, the structured filters and
// finally a stable sort. The input slice is not modified.
func FilteredView(tasks []models.Task, opts ViewOptions) ([]models.Task, error) {
	category, err := ParseCategory(string(opts.Category))
	if err != nil {
		return nil, err
	}
	sortKey, err := ParseSortKey(string(opts.Sort))
	if err != nil {
		return nil, err
	}
	if err := opts.Filters.Validate(); err != nil {
		return nil, types.NewError(types.KindValidation, "invalid filters", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cal := models.CalendarAt(now)

	clauses := Parse(opts.Search)
	required := RequiredTags(opts.Search)

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesRequiredTags(t, required) || !matchesClauses(t, clauses, cal) {
			continue
		}
		if opts.ActiveTag != "" && !t.HasTag(opts.ActiveTag) {
			continue
		}
		if opts.HideCompleted && t.Completed {
			continue
		}
		if !InCategory(t, category, cal.Today) {
			continue
		}
		if !MatchFilters(t, opts.Filters, cal) {
			continue
		}
		out = append(out, t)
	}

	SortTasks(out, sortKey)
	return out, nil
}

func matchesClauses(t models.Task, clauses []Clause, cal models.Calendar) bool {
	for _, c := range clauses {
		if !c.Match(t, cal) {
			return false
		}
	}
	return true
}

func matchesRequiredTags(t models.Task, required []string) bool {
	for _, tag := range required {
		if !t.HasTagFold(tag) {
			return false
		}
	}
	return true
}

// InCategory reports whether t belongs to bucket c relative to today.
func InCategory(t models.Task, c Category, today string) bool {
	switch c {
	case CategoryToday:
		return isDueToday(t, today)
	case CategoryUpcoming:
		return isUpcoming(t, today)
	case CategoryOverdue:
		return isOverdue(t, today)
	case CategoryCompleted:
		return t.Completed
	}
	return true
}

// MatchFilters applies the structured filter configuration to one task.
func MatchFilters(t models.Task, f models.FilterConfig, cal models.Calendar) bool {
	if f.FromDate != "" || f.ToDate != "" {
		d := t.DueDate
		if d == "" {
			d = t.CreatedDate
		}
		if d == "" {
			return false
		}
		if f.FromDate != "" && d < f.FromDate {
			return false
		}
		if f.ToDate != "" && d > f.ToDate {
			return false
		}
	}

	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}

	switch f.Status {
	case models.StatusActive:
		if t.Completed {
			return false
		}
	case models.StatusCompleted:
		if !t.Completed {
			return false
		}
	case models.StatusOverdue:
		if !isOverdue(t, cal.Today) {
			return false
		}
	}

	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}

	switch f.CreatedDate {
	case models.CreatedToday:
		if t.CreatedDate != cal.Today {
			return false
		}
	case models.CreatedYesterday:
		if t.CreatedDate != cal.Yesterday {
			return false
		}
	case models.CreatedWeek:
		if t.CreatedDate < cal.WeekStart {
			return false
		}
	case models.CreatedMonth:
		if t.CreatedDate < cal.MonthDay1 {
			return false
		}
	case models.CreatedCustom:
		if f.CreatedFrom != "" && t.CreatedDate < f.CreatedFrom {
			return false
		}
		if f.CreatedTo != "" && t.CreatedDate > f.CreatedTo {
			return false
		}
	}

	switch f.DueDate {
	case models.DueToday:
		return t.DueDate == cal.Today
	case models.DueTomorrow:
		return t.DueDate == cal.Tomorrow
	case models.DueWeek:
		return t.DueDate != "" && t.DueDate <= cal.WeekEnd
	case models.DueOverdue:
		return isOverdue(t, cal.Today)
	case models.DueNone:
		return t.DueDate == ""
	}
	return true
}

// SortTasks orders tasks in place. The sort is stable, so equal keys keep
// their collection order.
func SortTasks(tasks []models.Task, key SortKey) {
	switch key {
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Weight() > tasks[j].Priority.Weight()
		})
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == "":
				return false
			case b == "":
				return true
			}
			return a < b
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedDate > tasks[j].CreatedDate
		})
	}
}
