package rollover

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// Report describes one rollover check.
type Report struct {
	// Rolled is false when the set was already current.
	Rolled bool

	Date     civil.Date
	Previous string

	Cleaned         int
	Promoted        int
	DeadlineMoved   int
	MarkedImportant int

	// Orphaned counts subtasks promoted to top-level because their
	// parent was cleaned up.
	Orphaned int
}

// Changed reports whether the rollover touched any task.
func (r Report) Changed() bool {
	return r.Cleaned+r.Promoted+r.DeadlineMoved+r.MarkedImportant+r.Orphaned > 0
}

// Summary returns the notification text for the rollover, or "" when
// nothing worth telling the user happened.
func (r Report) Summary() string {
	var parts []string
	if r.Cleaned > 0 {
		parts = append(parts, fmt.Sprintf("%d completed tasks cleaned up", r.Cleaned))
	}
	if r.Promoted > 0 {
		parts = append(parts, fmt.Sprintf("%d week-old tasks moved to Today", r.Promoted))
	}
	if r.DeadlineMoved > 0 {
		parts = append(parts, fmt.Sprintf("%d deadline tasks moved to Today", r.DeadlineMoved))
	}
	if r.MarkedImportant > 0 {
		parts = append(parts, fmt.Sprintf("%d tasks marked important (deadline approaching)", r.MarkedImportant))
	}
	if len(parts) == 0 {
		return ""
	}
	return "New day! " + strings.Join(parts, ", ")
}
