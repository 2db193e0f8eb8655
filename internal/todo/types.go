package todo

import (
	"errors"
	"fmt"
)

// Task is a single to-do entry.
type Task struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
	Edit  bool   `json:"edit"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == 0
}

// ErrDuplicateTitle is returned by Add when a task with the same title exists.
var ErrDuplicateTitle = errors.New("task already exists")

// DuplicateTitleError reports the title that collided on Add.
type DuplicateTitleError struct {
	Title string
}

func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateTitle, e.Title)
}

// Is reports whether target is ErrDuplicateTitle.
func (e *DuplicateTitleError) Is(target error) bool {
	return target == ErrDuplicateTitle
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
