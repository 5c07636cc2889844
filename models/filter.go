package models

import (
	"fmt"
	"strings"
)

// StatusBucket restricts tasks by completion state.
type StatusBucket string

const (
	StatusAny       StatusBucket = ""
	StatusActive    StatusBucket = "active"
	StatusCompleted StatusBucket = "completed"
	StatusOverdue   StatusBucket = "overdue"
)

// CreatedBucket restricts tasks by when they were created.
type CreatedBucket string

const (
	CreatedAny       CreatedBucket = ""
	CreatedToday     CreatedBucket = "today"
	CreatedYesterday CreatedBucket = "yesterday"
	CreatedWeek      CreatedBucket = "week"
	CreatedMonth     CreatedBucket = "month"
	CreatedCustom    CreatedBucket = "custom"
)

// DueBucket restricts tasks by due date.
type DueBucket string

const (
	DueAny      DueBucket = ""
	DueToday    DueBucket = "today"
	DueTomorrow DueBucket = "tomorrow"
	DueWeek     DueBucket = "week"
	DueOverdue  DueBucket = "overdue"
	DueNone     DueBucket = "no-due-date"
)

// FilterConfig holds the structured (non free-text) filter criteria.
// The zero value filters nothing.
type FilterConfig struct {
	FromDate    string        `json:"fromDate,omitempty" yaml:"fromDate,omitempty" validate:"omitempty,date"`
	ToDate      string        `json:"toDate,omitempty" yaml:"toDate,omitempty" validate:"omitempty,date"`
	Priority    Priority      `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,oneof=Low Med High"`
	Status      StatusBucket  `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=active completed overdue"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,notblank"`
	CreatedDate CreatedBucket `json:"createdDate,omitempty" yaml:"createdDate,omitempty" validate:"omitempty,oneof=today yesterday week month custom"`
	CreatedFrom string        `json:"createdFrom,omitempty" yaml:"createdFrom,omitempty" validate:"omitempty,date"`
	CreatedTo   string        `json:"createdTo,omitempty" yaml:"createdTo,omitempty" validate:"omitempty,date"`
	DueDate     DueBucket     `json:"dueDate,omitempty" yaml:"dueDate,omitempty" validate:"omitempty,oneof=today tomorrow week overdue no-due-date"`
}

// IsZero reports whether no criterion is set.
func (f FilterConfig) IsZero() bool {
	return f.FromDate == "" && f.ToDate == "" && f.Priority == "" && f.Status == "" &&
		len(f.Tags) == 0 && f.CreatedDate == "" && f.CreatedFrom == "" && f.CreatedTo == "" &&
		f.DueDate == ""
}

// Summary lists the active criteria as "Label: value" strings in display order.
func (f FilterConfig) Summary() []string {
	var out []string
	if f.FromDate != "" || f.ToDate != "" {
		out = append(out, "Date Range: "+orAny(f.FromDate)+" to "+orAny(f.ToDate))
	}
	if f.Priority != "" {
		out = append(out, "Priority: "+string(f.Priority))
	}
	if f.Status != "" {
		out = append(out, "Status: "+string(f.Status))
	}
	for _, tag := range f.Tags {
		out = append(out, "Tag: "+tag)
	}
	if f.CreatedDate != "" {
		v := string(f.CreatedDate)
		if f.CreatedDate == CreatedCustom {
			v += " (" + orAny(f.CreatedFrom) + " to " + orAny(f.CreatedTo) + ")"
		}
		out = append(out, "Created: "+v)
	}
	if f.DueDate != "" {
		out = append(out, "Due Date: "+string(f.DueDate))
	}
	return out
}

func orAny(s string) string {
	if s == "" {
		return "Any"
	}
	return s
}

// Validate checks every criterion.
func (f FilterConfig) Validate() error {
	if err := ValidateStruct(f); err != nil {
		return err
	}
	if f.FromDate != "" && f.ToDate != "" && f.FromDate > f.ToDate {
		return fmt.Errorf("fromDate %s is after toDate %s", f.FromDate, f.ToDate)
	}
	return nil
}

// FilterPreset is a named, persisted filter configuration.
type FilterPreset struct {
	ID      string       `json:"id" validate:"required"`
	Name    string       `json:"name" validate:"required,notblank,max=80"`
	Filters FilterConfig `json:"filters"`
}

// NormalizeFilterTags trims and drops empty tag criteria.
func NormalizeFilterTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
