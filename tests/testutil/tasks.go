package testutil

import (
	"testing"
	"time"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/tasks"
)

// NewManager returns a Manager over an empty set with a fixed clock and
// sequential ids t1, t2, ...
func NewManager(t *testing.T, now time.Time) *tasks.Manager {
	t.Helper()

	m := tasks.New(model.NewTaskSet(now))
	m.Now = func() time.Time { return now }
	m.NewID = SeqIDs("t")
	return m
}

// MustAdd adds a task and fails the test on error.
func MustAdd(t *testing.T, m *tasks.Manager, text string, list model.List, parentID string) *model.Task {
	t.Helper()

	task, err := m.AddTask(text, list, parentID)
	if err != nil {
		t.Fatalf("adding %q: %v", text, err)
	}
	return task
}
