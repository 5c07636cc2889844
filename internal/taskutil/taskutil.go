package taskutil

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

// NormalizePriority maps common CLI shorthands to a canonical priority.
// Empty input stays empty so callers can apply their own default.
func NormalizePriority(input string) (models.Priority, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", nil
	}

	switch s {
	case "lo", "l", "minor", "p3":
		return models.PriorityLow, nil
	case "m", "normal", "regular", "p2":
		return models.PriorityMed, nil
	case "hi", "h", "urgent", "important", "critical", "p1", "p0":
		return models.PriorityHigh, nil
	}

	p, err := models.ParsePriority(s)
	if err != nil {
		return "", types.ValidationError("unknown priority %q: use low, med or high", input)
	}
	return p, nil
}

// PriorityLabel is the fixed-width label used in list output.
func PriorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "high"
	case models.PriorityMed:
		return "med"
	case models.PriorityLow:
		return "low"
	}
	return "-"
}

// DueLabel describes a due date relative to today for list output.
func DueLabel(t models.Task, today string) string {
	switch {
	case t.DueDate == "":
		return ""
	case t.Completed:
		return t.DueDate
	case t.DueDate < today:
		return t.DueDate + " (overdue)"
	case t.DueDate == today:
		return "today"
	}
	return t.DueDate
}

// SubtaskProgress renders "done/total", or "" without subtasks.
func SubtaskProgress(t models.Task) string {
	if len(t.Subtasks) == 0 {
		return ""
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Done {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}
