package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DateLayout is the canonical calendar date format used for every date field.
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock format of createdTime.
	TimeLayout = "15:04"
	// MaxTags caps the number of tags a task can carry.
	MaxTags = 5
)

// Priority represents the priority levels of a task.
type Priority string

const (
	PriorityLow  Priority = "Low"
	PriorityMed  Priority = "Med"
	PriorityHigh Priority = "High"
)

// ParsePriority accepts any casing of Low/Med/High plus "medium".
func ParsePriority(s string) (Priority, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "medium") {
		return PriorityMed, nil
	}
	p := Priority(cases.Title(language.English).String(strings.ToLower(v)))
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q: must be Low, Med or High", s)
}

// Weight orders priorities for sorting: High=3, Med=2, Low=1, anything else 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMed:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Subtask is a checklist item belonging to a task.
type Subtask struct {
	Label string `json:"label" yaml:"label"`
	Done  bool   `json:"done" yaml:"done"`
}

// Task represents a single to-do item.
//
// Subtask labels and their done flags are kept together so the two can never
// drift apart; the parallel-array form only exists on the wire (see Record).
type Task struct {
	ID            string    `validate:"required"`
	Title         string    `validate:"required,notblank"`
	Description   string
	Completed     bool
	CompletedDate string    `validate:"omitempty,date"`
	Priority      Priority  `validate:"required,oneof=Low Med High"`
	DueDate       string    `validate:"omitempty,date"`
	Tags          []string  `validate:"max=5,dive,notblank"`
	CreatedDate   string    `validate:"omitempty,date"`
	CreatedTime   string
	Subtasks      []Subtask `validate:"dive"`
}

// SubtaskLabels returns the labels in order.
func (t Task) SubtaskLabels() []string {
	if len(t.Subtasks) == 0 {
		return nil
	}
	labels := make([]string, len(t.Subtasks))
	for i, s := range t.Subtasks {
		labels[i] = s.Label
	}
	return labels
}

// HasTag reports exact (case-sensitive) tag membership.
func (t Task) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// HasTagFold reports case-insensitive tag membership.
func (t Task) HasTagFold(tag string) bool {
	for _, x := range t.Tags {
		if strings.EqualFold(x, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	return c
}

// SetCompleted sets the completion flag, stamping or clearing CompletedDate.
func (t *Task) SetCompleted(done bool, today string) {
	t.Completed = done
	if done {
		t.CompletedDate = today
	} else {
		t.CompletedDate = ""
	}
}

// SetSubtaskLabels replaces the checklist labels. Done flags are kept by
// position up to the shorter of the old and new lists; new slots start undone.
func (t *Task) SetSubtaskLabels(labels []string) {
	next := make([]Subtask, 0, len(labels))
	for i, label := range labels {
		s := Subtask{Label: label}
		if i < len(t.Subtasks) {
			s.Done = t.Subtasks[i].Done
		}
		next = append(next, s)
	}
	if len(next) == 0 {
		next = nil
	}
	t.Subtasks = next
}

// ToggleSubtask flips subtask i and re-derives the parent's completion: all
// subtasks done completes the task, anything else un-completes it.
func (t *Task) ToggleSubtask(i int, today string) error {
	if i < 0 || i >= len(t.Subtasks) {
		return fmt.Errorf("subtask index %d out of range [0,%d)", i, len(t.Subtasks))
	}
	t.Subtasks[i].Done = !t.Subtasks[i].Done

	allDone := len(t.Subtasks) > 0
	for _, s := range t.Subtasks {
		if !s.Done {
			allDone = false
			break
		}
	}
	if allDone {
		t.SetCompleted(true, today)
	} else if t.Completed {
		t.SetCompleted(false, today)
	}
	return nil
}

// NormalizeTags trims, drops empties and caps the list at MaxTags. The second
// return value reports whether tags were dropped by the cap.
func NormalizeTags(tags []string) ([]string, bool) {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) > MaxTags {
		return out[:MaxTags], true
	}
	return out, false
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// NewTask creates a task stamped with now's local date and time.
func NewTask(id, title string, now time.Time) Task {
	return Task{
		ID:          id,
		Title:       title,
		Priority:    PriorityMed,
		CreatedDate: now.Format(DateLayout),
		CreatedTime: now.Format(TimeLayout),
	}
}

// Record is the wire shape of a task, shared by the cache, the external file
// and import/export. Subtasks travel as two parallel arrays.
type Record struct {
	ID            string   `json:"id" yaml:"id" toml:"id"`
	Title         string   `json:"title" yaml:"title" toml:"title"`
	Description   string   `json:"description" yaml:"description" toml:"description"`
	Completed     bool     `json:"completed" yaml:"completed" toml:"completed"`
	CompletedDate *string  `json:"completedDate" yaml:"completedDate" toml:"completedDate,omitempty"`
	Priority      string   `json:"priority" yaml:"priority" toml:"priority"`
	DueDate       string   `json:"dueDate" yaml:"dueDate" toml:"dueDate"`
	Tags          []string `json:"tags" yaml:"tags" toml:"tags"`
	CreatedDate   string   `json:"createdDate" yaml:"createdDate" toml:"createdDate"`
	CreatedTime   string   `json:"createdTime,omitempty" yaml:"createdTime,omitempty" toml:"createdTime,omitempty"`
	Subtasks      []string `json:"subtasks" yaml:"subtasks" toml:"subtasks"`
	SubtasksDone  []bool   `json:"subtasksDone" yaml:"subtasksDone" toml:"subtasksDone"`
}

// ToRecord converts a task to its wire shape.
func (t Task) ToRecord() Record {
	r := Record{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		Tags:         append([]string{}, t.Tags...),
		CreatedDate:  t.CreatedDate,
		CreatedTime:  t.CreatedTime,
		Subtasks:     make([]string, len(t.Subtasks)),
		SubtasksDone: make([]bool, len(t.Subtasks)),
	}
	if t.CompletedDate != "" {
		d := t.CompletedDate
		r.CompletedDate = &d
	}
	for i, s := range t.Subtasks {
		r.Subtasks[i] = s.Label
		r.SubtasksDone[i] = s.Done
	}
	return r
}

// ToTask converts a wire record back into a task. A missing or mis-sized
// SubtasksDone is aligned to Subtasks: extra flags dropped, missing ones false.
func (r Record) ToTask() Task {
	t := Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    Priority(r.Priority),
		DueDate:     r.DueDate,
		CreatedDate: r.CreatedDate,
		CreatedTime: r.CreatedTime,
	}
	if p, err := ParsePriority(r.Priority); err == nil {
		t.Priority = p
	}
	if r.CompletedDate != nil {
		t.CompletedDate = *r.CompletedDate
	}
	if len(r.Tags) > 0 {
		t.Tags = append([]string(nil), r.Tags...)
	}
	if len(r.Subtasks) > 0 {
		t.Subtasks = make([]Subtask, len(r.Subtasks))
		for i, label := range r.Subtasks {
			t.Subtasks[i].Label = label
			if i < len(r.SubtasksDone) {
				t.Subtasks[i].Done = r.SubtasksDone[i]
			}
		}
	}
	return t
}

// MarshalJSON writes the task in its wire shape.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToRecord())
}

// UnmarshalJSON reads the wire shape.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*t = r.ToTask()
	return nil
}

// global validator instance
var validate *validator.Validate

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("date", validateDate)
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// validateDate checks the canonical YYYY-MM-DD layout and that the date exists.
func validateDate(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// IsDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
