package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
)

// List identifies which of the two task lists a task belongs to.
type List string

const (
	ListToday List = "today"
	ListLater List = "later"

	// listTomorrow is the name older releases used for the later list.
	listTomorrow List = "tomorrow"
)

// Lists is the fixed display order of the two lists.
var Lists = []List{ListToday, ListLater}

// ParseList maps a user or legacy list name to a List.
func ParseList(s string) (List, error) {
	switch List(strings.ToLower(strings.TrimSpace(s))) {
	case ListToday:
		return ListToday, nil
	case ListLater, listTomorrow:
		return ListLater, nil
	default:
		return "", fmt.Errorf("unknown list %q: %w", s, ErrValidation)
	}
}

// Other returns the opposite list.
func (l List) Other() List {
	if l == ListToday {
		return ListLater
	}
	return ListToday
}

// Title returns the section heading used in exports and the UI.
func (l List) Title() string {
	if l == ListToday {
		return "Today"
	}
	return "Later"
}

// MaxTaskLength is the longest task text accepted at the boundary.
const MaxTaskLength = 200

// Task is a single entry in one of the two lists. A task with a non-empty
// ParentID is a subtask; hierarchies are never deeper than two levels.
type Task struct {
	// ID is the opaque unique identifier, never reused within a set.
	ID string `json:"id"`

	// Text is the user supplied description.
	Text string `json:"text"`

	Completed bool `json:"completed"`
	Important bool `json:"important"`

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`

	// Deadline is an optional calendar date without a time component.
	Deadline *civil.Date `json:"deadline,omitempty"`

	// ParentID references the top-level task this subtask belongs to.
	ParentID string `json:"parentId,omitempty"`

	// List is independent of the parent's list for subtasks.
	List List `json:"list"`

	// IsExpanded controls whether subtasks are shown under this task.
	IsExpanded bool `json:"isExpanded"`
}

// IsSubtask reports whether the task has a parent.
func (t *Task) IsSubtask() bool { return t.ParentID != "" }

// Created returns CreatedAt as a time.
func (t *Task) Created() time.Time { return time.UnixMilli(t.CreatedAt) }

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	return &c
}

// ValidateText checks user input for a task before it reaches the store.
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("task text must not be empty: %w", ErrValidation)
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxTaskLength {
		return fmt.Errorf("task text is %d characters, limit is %d: %w", n, MaxTaskLength, ErrValidation)
	}
	return nil
}

// ParseDeadline parses an ISO calendar date. An empty string yields nil.
func ParseDeadline(s string) (*civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, ErrValidation)
	}
	return &d, nil
}
