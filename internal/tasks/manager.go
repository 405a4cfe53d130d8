// Package tasks owns the in-memory task collection: creation, lookup and
// removal, plus the cascade rules that keep parents and subtasks
// consistent when they are completed, moved or deleted.
//
// A Manager never performs I/O. Callers persist and redraw afterwards.
package tasks

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/nhle/do-it-later/internal/model"
)

// Manager mutates a single TaskSet in place.
type Manager struct {
	set *model.TaskSet

	// Now supplies creation and mutation timestamps.
	Now func() time.Time

	// NewID generates task identifiers.
	NewID func() string
}

// New returns a Manager operating on set.
func New(set *model.TaskSet) *Manager {
	return &Manager{
		set:   set,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Set returns the underlying task set.
func (m *Manager) Set() *model.TaskSet { return m.set }

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) touch() { m.set.Touch(m.now()) }

// AddTask creates a task at the end of the set. When parentID is
// non-empty the task becomes a subtask of that top-level task; adding an
// incomplete subtask to a completed parent reopens the parent.
func (m *Manager) AddTask(text string, list model.List, parentID string) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("adding task: text must not be empty: %w", model.ErrValidation)
	}
	if list != model.ListToday && list != model.ListLater {
		return nil, fmt.Errorf("adding task: unknown list %q: %w", list, model.ErrValidation)
	}

	var parent *model.Task
	if parentID != "" {
		p, ok := m.FindByID(parentID)
		if !ok {
			return nil, fmt.Errorf("adding subtask to %s: %w", parentID, model.ErrNotFound)
		}
		if p.IsSubtask() {
			return nil, fmt.Errorf("adding subtask to %s: subtasks cannot have subtasks: %w", parentID, model.ErrValidation)
		}
		parent = p
	}

	t := &model.Task{
		ID:         m.uniqueID(),
		Text:       text,
		CreatedAt:  m.now().UnixMilli(),
		ParentID:   parentID,
		List:       list,
		IsExpanded: true,
	}
	m.set.Tasks = append(m.set.Tasks, t)

	if parent != nil {
		parent.IsExpanded = true
		m.setCompleted(parent, false)
	}
	m.touch()
	return t, nil
}

func (m *Manager) uniqueID() string {
	gen := m.NewID
	if gen == nil {
		gen = uuid.NewString
	}
	for {
		id := gen()
		if _, taken := m.FindByID(id); !taken {
			return id
		}
	}
}

// FindByID returns the task with the given id.
func (m *Manager) FindByID(id string) (*model.Task, bool) {
	for _, t := range m.set.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// RemoveByID deletes exactly one task. Subtasks of a removed parent are
// left alone; use DeleteWithSubtasks for cascading removal.
func (m *Manager) RemoveByID(id string) bool {
	before := len(m.set.Tasks)
	m.set.Tasks = slices.DeleteFunc(m.set.Tasks, func(t *model.Task) bool {
		return t.ID == id
	})
	if len(m.set.Tasks) == before {
		return false
	}
	m.touch()
	return true
}

// ListTasks returns the tasks in list in set order.
func (m *Manager) ListTasks(list model.List) []*model.Task {
	var out []*model.Task
	for _, t := range m.set.Tasks {
		if t.List == list {
			out = append(out, t)
		}
	}
	return out
}

// EditText replaces a task's text.
func (m *Manager) EditText(id, text string) error {
	if err := model.ValidateText(text); err != nil {
		return err
	}
	t, ok := m.FindByID(id)
	if !ok {
		return fmt.Errorf("editing task %s: %w", id, model.ErrNotFound)
	}
	t.Text = strings.TrimSpace(text)
	m.touch()
	return nil
}

// SetDeadline sets or, with a nil deadline, clears a task's deadline.
// Importance granted by an approaching deadline is kept either way.
func (m *Manager) SetDeadline(id string, deadline *civil.Date) (*model.Task, bool) {
	t, ok := m.FindByID(id)
	if !ok {
		return nil, false
	}
	if deadline == nil {
		t.Deadline = nil
	} else {
		d := *deadline
		t.Deadline = &d
	}
	m.touch()
	return t, true
}

// ToggleExpanded flips whether a task's subtasks are shown.
func (m *Manager) ToggleExpanded(id string) (*model.Task, bool) {
	t, ok := m.FindByID(id)
	if !ok {
		return nil, false
	}
	t.IsExpanded = !t.IsExpanded
	m.touch()
	return t, true
}

// setCompleted applies a completion change and keeps the lifetime
// counter in step. It reports whether the flag changed.
func (m *Manager) setCompleted(t *model.Task, completed bool) bool {
	if t.Completed == completed {
		return false
	}
	t.Completed = completed
	if completed {
		m.set.TotalCompleted++
	} else if m.set.TotalCompleted > 0 {
		m.set.TotalCompleted--
	}
	return true
}
