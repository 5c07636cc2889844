package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/litedo/internal/logger"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the source of the current time (creation and
// completion stamps).
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides how new task ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) { s.newID = gen }
}

// WithLogger sets the logger used for swallowed cache failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *MemoryStore) { s.log = l.WithComponent("store") }
}

// MemoryStore implements TaskStore on an ordered in-memory slice, mirrored
// to a Cache after every mutation.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []models.Task

	cache Cache
	log   *logger.Logger
	now   func() time.Time
	newID func() string

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

var _ TaskStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A nil cache disables persistence.
func NewMemoryStore(cache Cache, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		cache:     cache,
		log:       logger.NewNop(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCachedTasks reads the collection saved under KeyTasks. A missing key
// yields an empty collection.
func LoadCachedTasks(c Cache) ([]models.Task, error) {
	raw, ok, err := c.Get(KeyTasks)
	if err != nil {
		return nil, types.NewError(types.KindStorage, "read cached tasks", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tasks []models.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, types.NewError(types.KindFormat, "cached tasks are corrupt", err)
	}
	return tasks, nil
}

func (s *MemoryStore) today() string {
	return s.now().Format(models.DateLayout)
}

func (s *MemoryStore) Create(in NewTaskInput) (models.Task, Result, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, Result{}, types.ValidationError("title is required")
	}

	priority := models.PriorityMed
	if in.Priority != "" {
		p, err := models.ParsePriority(string(in.Priority))
		if err != nil {
			return models.Task{}, Result{}, types.NewError(types.KindValidation, "", err)
		}
		priority = p
	}

	dueDate := strings.TrimSpace(in.DueDate)
	if dueDate != "" && !models.IsDate(dueDate) {
		return models.Task{}, Result{}, types.ValidationError("due date %q must be YYYY-MM-DD", in.DueDate)
	}

	tags, truncated := models.NormalizeTags(in.Tags)

	task := models.NewTask(s.newID(), title, s.now())
	task.Description = strings.TrimSpace(in.Description)
	task.Priority = priority
	task.DueDate = dueDate
	task.Tags = tags
	task.SetSubtaskLabels(normalizeLabels(in.Subtasks))

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, Result{}, types.NewError(types.KindValidation, "invalid task", err)
	}

	s.mu.Lock()
	if s.indexOf(task.ID) >= 0 {
		s.mu.Unlock()
		return models.Task{}, Result{}, types.ValidationError("task id %q already exists", task.ID)
	}
	s.tasks = append([]models.Task{task}, s.tasks...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpCreate, IDs: []string{task.ID}, Origin: OriginLocal})
	return task.Clone(), Result{TagsTruncated: truncated}, nil
}

func (s *MemoryStore) Get(id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, types.NotFoundError(id)
	}
	return s.tasks[i].Clone(), nil
}

func (s *MemoryStore) Update(id string, p Patch) (models.Task, Result, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, Result{}, types.NotFoundError(id)
	}

	task, res, err := applyPatch(s.tasks[i].Clone(), p)
	if err != nil {
		s.mu.Unlock()
		return models.Task{}, Result{}, err
	}
	s.tasks[i] = task
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpUpdate, IDs: []string{id}, Origin: OriginLocal})
	return task.Clone(), res, nil
}

func applyPatch(task models.Task, p Patch) (models.Task, Result, error) {
	var res Result
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return task, res, types.ValidationError("title is required")
		}
		task.Title = title
	}
	if p.Description != nil {
		task.Description = strings.TrimSpace(*p.Description)
	}
	if p.Priority != nil {
		pr, err := models.ParsePriority(string(*p.Priority))
		if err != nil {
			return task, res, types.NewError(types.KindValidation, "", err)
		}
		task.Priority = pr
	}
	if p.DueDate != nil {
		due := strings.TrimSpace(*p.DueDate)
		if due != "" && !models.IsDate(due) {
			return task, res, types.ValidationError("due date %q must be YYYY-MM-DD", *p.DueDate)
		}
		task.DueDate = due
	}
	if p.Tags != nil {
		task.Tags, res.TagsTruncated = models.NormalizeTags(*p.Tags)
	}
	if p.Subtasks != nil {
		task.SetSubtaskLabels(normalizeLabels(*p.Subtasks))
	}
	if err := models.ValidateStruct(task); err != nil {
		return task, res, types.NewError(types.KindValidation, "invalid task", err)
	}
	return task, res, nil
}

func (s *MemoryStore) ToggleCompleted(id string) (models.Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, types.NotFoundError(id)
	}
	s.tasks[i].SetCompleted(!s.tasks[i].Completed, s.today())
	task := s.tasks[i].Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpToggle, IDs: []string{id}, Origin: OriginLocal})
	return task, nil
}

func (s *MemoryStore) ToggleSubtask(id string, index int) (models.Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, types.NotFoundError(id)
	}
	if err := s.tasks[i].ToggleSubtask(index, s.today()); err != nil {
		s.mu.Unlock()
		return models.Task{}, types.NewError(types.KindValidation, "", err)
	}
	task := s.tasks[i].Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpToggleSubtask, IDs: []string{id}, Origin: OriginLocal})
	return task, nil
}

func (s *MemoryStore) Delete(id string) error {
	n, err := s.DeleteMany([]string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return types.NotFoundError(id)
	}
	return nil
}

func (s *MemoryStore) DeleteMany(ids []string) (int, error) {
	drop := toSet(ids)

	s.mu.Lock()
	kept := s.tasks[:0:0]
	var removed []string
	for _, t := range s.tasks {
		if _, ok := drop[t.ID]; ok {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.tasks = kept
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpDelete, IDs: removed, Origin: OriginLocal})
	return len(removed), nil
}

func (s *MemoryStore) CompleteMany(ids []string) (int, error) {
	want := toSet(ids)
	today := s.today()

	s.mu.Lock()
	var changed []string
	for i := range s.tasks {
		if _, ok := want[s.tasks[i].ID]; !ok || s.tasks[i].Completed {
			continue
		}
		s.tasks[i].SetCompleted(true, today)
		changed = append(changed, s.tasks[i].ID)
	}
	if len(changed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpComplete, IDs: changed, Origin: OriginLocal})
	return len(changed), nil
}

func (s *MemoryStore) RemoveTags(tags []string) (int, error) {
	drop := toSet(tags)

	s.mu.Lock()
	var changed []string
	for i := range s.tasks {
		t := &s.tasks[i]
		var kept []string
		for _, tag := range t.Tags {
			if _, ok := drop[tag]; !ok {
				kept = append(kept, tag)
			}
		}
		if len(kept) != len(t.Tags) {
			t.Tags = kept
			changed = append(changed, t.ID)
		}
	}
	if len(changed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: OpRemoveTags, IDs: changed, Origin: OriginLocal})
	return len(changed), nil
}

// RemoveTag strips a single tag from every task.
func (s *MemoryStore) RemoveTag(tag string) (int, error) {
	return s.RemoveTags([]string{tag})
}

func (s *MemoryStore) ReplaceAll(tasks []models.Task) error {
	return s.replace(tasks, OpReplace, OriginLocal)
}

func (s *MemoryStore) Reload(tasks []models.Task) error {
	return s.replace(tasks, OpReload, OriginFile)
}

func (s *MemoryStore) Reset(tasks []models.Task) error {
	return s.replace(tasks, OpReset, OriginLocal)
}

func (s *MemoryStore) Load(tasks []models.Task) error {
	next, err := prepareCollection(tasks)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) replace(tasks []models.Task, op Op, origin Origin) error {
	next, err := prepareCollection(tasks)
	if err != nil {
		return err
	}
	ids := make([]string, len(next))
	for i, t := range next {
		ids[i] = t.ID
	}

	s.mu.Lock()
	s.tasks = next
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Op: op, IDs: ids, Origin: origin})
	return nil
}

// prepareCollection deep-copies an incoming collection and checks the id
// invariant. Shape problems are format errors.
func prepareCollection(tasks []models.Task) ([]models.Task, error) {
	next := make([]models.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			return nil, types.NewError(types.KindFormat, fmt.Sprintf("task %d has no id", i), nil)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, types.NewError(types.KindFormat, fmt.Sprintf("duplicate task id %q", t.ID), nil)
		}
		seen[t.ID] = struct{}{}

		c := t.Clone()
		if len(c.Tags) == 0 {
			c.Tags = nil
		}
		if len(c.Subtasks) == 0 {
			c.Subtasks = nil
		}
		next = append(next, c)
	}
	return next, nil
}

func (s *MemoryStore) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *MemoryStore) AllTags() []string {
	counts := s.TagUsageCounts()
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (s *MemoryStore) TagUsageCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, t := range s.tasks {
		seen := make(map[string]struct{}, len(t.Tags))
		for _, tag := range t.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}
	return counts
}

func (s *MemoryStore) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *MemoryStore) notify(c Change) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = s.observers[id]
	}
	s.obsMu.Unlock()

	for _, o := range observers {
		o(c)
	}
}

// persistLocked mirrors the collection to the cache. Failures are logged and
// swallowed: the session keeps working in memory. Caller holds s.mu.
func (s *MemoryStore) persistLocked() {
	if s.cache == nil {
		return
	}
	tasks := s.tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		s.log.WithError(err).Errorw("failed to serialize tasks for cache", "count", len(tasks))
		return
	}
	if err := s.cache.Set(KeyTasks, string(data)); err != nil {
		s.log.WithError(err).Warnw("failed to persist tasks to cache", "key", KeyTasks, "count", len(tasks))
	}
}

func (s *MemoryStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func normalizeLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
