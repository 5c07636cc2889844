package models

import "time"

// Calendar is the set of reference dates every date-relative filter needs,
// computed once per view from a single instant in its own location.
type Calendar struct {
	Today     string
	Yesterday string
	Tomorrow  string
	WeekStart string // Monday of the current week
	WeekEnd   string // Sunday of the current week; today when today is Sunday
	MonthDay1 string
}

// CalendarAt derives the reference dates for now.
func CalendarAt(now time.Time) Calendar {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	// Go weekdays start at Sunday=0; shift so Monday=0.
	sinceMonday := (int(day.Weekday()) + 6) % 7
	untilSunday := 0
	if day.Weekday() != time.Sunday {
		untilSunday = 7 - int(day.Weekday())
	}

	return Calendar{
		Today:     day.Format(DateLayout),
		Yesterday: day.AddDate(0, 0, -1).Format(DateLayout),
		Tomorrow:  day.AddDate(0, 0, 1).Format(DateLayout),
		WeekStart: day.AddDate(0, 0, -sinceMonday).Format(DateLayout),
		WeekEnd:   day.AddDate(0, 0, untilSunday).Format(DateLayout),
		MonthDay1: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).Format(DateLayout),
	}
}

// DaysAgo formats the date n days before now.
func DaysAgo(now time.Time, n int) string {
	return now.AddDate(0, 0, -n).Format(DateLayout)
}
