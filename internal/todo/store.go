package todo

import (
	"time"
)

// Store owns the ordered task sequence.
//
// A Store is not safe for concurrent use. All mutations are expected to run
// on the UI event loop.
type Store struct {
	tasks  []Task
	now    func() time.Time
	lastID int64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used to derive task ids.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		tasks: []Task{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current task sequence.
func (s *Store) Snapshot() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// HasTitle reports whether any task currently has exactly this title.
func (s *Store) HasTitle(title string) bool {
	for _, t := range s.tasks {
		if t.Title == title {
			return true
		}
	}
	return false
}

// Add appends a new task to the end of the sequence.
// It returns a *DuplicateTitleError, matching ErrDuplicateTitle, when a task
// with the same title already exists; the sequence is left unchanged.
func (s *Store) Add(title string) (Task, error) {
	if s.HasTitle(title) {
		return Task{}, &DuplicateTitleError{Title: title}
	}

	task := Task{
		ID:    s.nextID(),
		Title: title,
	}

	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, task)
	return task, nil
}

// ToggleDone flips the done flag of the task with the given id.
// It reports whether a task matched.
func (s *Store) ToggleDone(id int64) bool {
	return s.update(id, func(t *Task) {
		t.Done = !t.Done
	})
}

// SetEditing flips the edit flag of the task with the given id. It is used
// both to enter and to leave edit mode and does not look at other tasks.
func (s *Store) SetEditing(id int64) bool {
	return s.update(id, func(t *Task) {
		t.Edit = !t.Edit
	})
}

// CommitEdit replaces the title of the task with the given id and leaves
// edit mode. No duplicate check is made here.
func (s *Store) CommitEdit(id int64, title string) bool {
	return s.update(id, func(t *Task) {
		t.Title = title
		t.Edit = false
	})
}

// Remove deletes the task with the given id, keeping the order of the rest.
func (s *Store) Remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	return true
}

// update replaces the matching task with a modified copy in a new slice.
func (s *Store) update(id int64, fn func(*Task)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := make([]Task, len(s.tasks))
	copy(next, s.tasks)
	fn(&next[i])
	s.tasks = next
	return true
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the clock in milliseconds, bumping past the
// previous id when the clock has not advanced.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
