package store

import "github.com/josephgoksu/litedo/models"

// Origin tells observers where a change came from.
type Origin int

const (
	// OriginLocal marks edits made in this session. The file binding writes
	// them back to the bound file.
	OriginLocal Origin = iota
	// OriginFile marks a reload from the bound file; it is never written back.
	OriginFile
)

// Op names the mutator that produced a Change.
type Op string

const (
	OpCreate        Op = "create"
	OpUpdate        Op = "update"
	OpToggle        Op = "toggle"
	OpToggleSubtask Op = "toggle_subtask"
	OpDelete        Op = "delete"
	OpComplete      Op = "complete"
	OpRemoveTags    Op = "remove_tags"
	OpReplace       Op = "replace"
	OpReload        Op = "reload"
	OpReset         Op = "reset"
)

// Change describes one committed mutation.
type Change struct {
	Op     Op
	IDs    []string
	Origin Origin
}

// Observer is called after a mutation has been committed and persisted to
// the cache. Observers run outside the store lock and may read the store.
type Observer func(Change)

// NewTaskInput carries the user-supplied fields of a new task.
type NewTaskInput struct {
	Title       string
	Description string
	// Priority defaults to Med when empty.
	Priority models.Priority
	DueDate  string
	Tags     []string
	Subtasks []string
}

// Patch holds field-level edits. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	DueDate     *string
	Tags        *[]string
	Subtasks    *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.Tags == nil && p.Subtasks == nil
}

// Result reports side information about a create or update.
type Result struct {
	// TagsTruncated is set when more than models.MaxTags tags were supplied.
	TagsTruncated bool
}

// TaskStore is the single source of truth for tasks. Every mutator persists
// the full collection to the cache and then notifies observers.
type TaskStore interface {
	// Create validates the input and inserts a new task at the front.
	Create(in NewTaskInput) (models.Task, Result, error)

	// Get returns a copy of the task with the given id.
	Get(id string) (models.Task, error)

	// Update applies a patch. It does not re-derive completion.
	Update(id string, p Patch) (models.Task, Result, error)

	// ToggleCompleted flips the completion flag and stamps or clears the
	// completion date.
	ToggleCompleted(id string) (models.Task, error)

	// ToggleSubtask flips one subtask and re-derives the parent's completion.
	ToggleSubtask(id string, index int) (models.Task, error)

	// Delete removes a single task.
	Delete(id string) error

	// DeleteMany removes every listed task that exists and returns the count.
	DeleteMany(ids []string) (int, error)

	// CompleteMany marks the listed tasks done and returns how many changed.
	CompleteMany(ids []string) (int, error)

	// RemoveTags strips the given tags from every task and returns how many
	// tasks changed.
	RemoveTags(tags []string) (int, error)

	// ReplaceAll replaces the collection wholesale (import).
	ReplaceAll(tasks []models.Task) error

	// Reload replaces the collection with the contents of the bound file.
	Reload(tasks []models.Task) error

	// Reset replaces the collection, typically with sample data.
	Reset(tasks []models.Task) error

	// Load seeds the collection without persisting or notifying.
	Load(tasks []models.Task) error

	// Snapshot returns an ordered deep copy of the collection.
	Snapshot() []models.Task

	// Len returns the number of tasks.
	Len() int

	// AllTags returns every tag in use, deduplicated and sorted.
	AllTags() []string

	// TagUsageCounts maps each tag to the number of tasks carrying it.
	TagUsageCounts() map[string]int

	// Subscribe registers an observer and returns a function removing it.
	Subscribe(o Observer) func()
}
