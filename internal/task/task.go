// Package task holds the task model and the locked read-modify-write service
// shared by the HTTP API and the CLI.
package task

import "errors"

// DefaultState is assigned to tasks created without a state.
const DefaultState = "Por Hacer"

// Lifecycle labels used by the bundled front end. State is free-form; these
// are conventions, not an enum.
const (
	StateTodo       = DefaultState
	StateInProgress = "En Progreso"
	StateDone       = "Hecho"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrContentRequired is returned when content is missing or empty.
	ErrContentRequired = errors.New("content is required")
	// ErrSave wraps store write failures.
	ErrSave = errors.New("save tasks")
)

// Task describes a task record.
type Task struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	State   string `json:"state"`
}

// Draft carries the fields accepted when creating a task.
type Draft struct {
	Content string
	State   string
}

// Patch carries the fields accepted when updating a task.
// Nil fields leave the stored value unchanged.
type Patch struct {
	Content *string
	State   *string
}

// Validate checks the patch before any store access.
func (p Patch) Validate() error {
	if p.Content != nil && *p.Content == "" {
		return ErrContentRequired
	}
	return nil
}

// Apply overwrites the fields present in the patch.
func (p Patch) Apply(t *Task) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.State != nil {
		t.State = *p.State
	}
}

// NextID returns max(id)+1, or 1 for an empty collection.
func NextID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}
