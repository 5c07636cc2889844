package taskutil

import (
	"errors"
	"testing"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		in   string
		want models.Priority
	}{
		{"", ""},
		{"low", models.PriorityLow},
		{"L", models.PriorityLow},
		{"med", models.PriorityMed},
		{"Medium", models.PriorityMed},
		{"normal", models.PriorityMed},
		{"HIGH", models.PriorityHigh},
		{"urgent", models.PriorityHigh},
		{" p1 ", models.PriorityHigh},
	}
	for _, tt := range tests {
		got, err := NormalizePriority(tt.in)
		if err != nil {
			t.Errorf("NormalizePriority(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := NormalizePriority("whenever"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("NormalizePriority(whenever) error = %v, want validation", err)
	}
}

func TestDueLabel(t *testing.T) {
	const today = "2025-08-12"
	tests := []struct {
		name string
		task models.Task
		want string
	}{
		{"no due date", models.Task{}, ""},
		{"overdue", models.Task{DueDate: "2025-08-11"}, "2025-08-11 (overdue)"},
		{"completed past due", models.Task{DueDate: "2025-08-11", Completed: true}, "2025-08-11"},
		{"today", models.Task{DueDate: today}, "today"},
		{"future", models.Task{DueDate: "2025-09-01"}, "2025-09-01"},
	}
	for _, tt := range tests {
		if got := DueLabel(tt.task, today); got != tt.want {
			t.Errorf("%s: DueLabel() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSubtaskProgress(t *testing.T) {
	task := models.Task{Subtasks: []models.Subtask{{Label: "a", Done: true}, {Label: "b"}, {Label: "c", Done: true}}}
	if got := SubtaskProgress(task); got != "2/3" {
		t.Errorf("SubtaskProgress() = %q, want %q", got, "2/3")
	}
	if got := SubtaskProgress(models.Task{}); got != "" {
		t.Errorf("SubtaskProgress() = %q, want empty", got)
	}
}

func TestPriorityLabel(t *testing.T) {
	if got := PriorityLabel(models.PriorityHigh); got != "high" {
		t.Errorf("PriorityLabel(High) = %q, want %q", got, "high")
	}
	if got := PriorityLabel(""); got != "-" {
		t.Errorf("PriorityLabel(\"\") = %q, want %q", got, "-")
	}
}
