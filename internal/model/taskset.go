package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// CurrentVersion is the schema version of the canonical persisted shape.
const CurrentVersion = 2

// TaskSet is the root aggregate: every task plus the lifetime counter and
// the date of the last rollover.
type TaskSet struct {
	Tasks []*Task `json:"tasks"`

	// TotalCompleted counts false->true transitions minus true->false
	// transitions over the lifetime of the set. Never negative.
	TotalCompleted int `json:"totalCompleted"`

	// CurrentDate is the ISO date (YYYY-MM-DD) of the last rollover check.
	CurrentDate string `json:"currentDate"`

	// LastUpdated is the time of the last mutation in epoch milliseconds.
	LastUpdated int64 `json:"lastUpdated"`

	Version int `json:"version"`
}

// NewTaskSet returns an empty set dated to now.
func NewTaskSet(now time.Time) *TaskSet {
	return &TaskSet{
		Tasks:       []*Task{},
		CurrentDate: civil.DateOf(now).String(),
		LastUpdated: now.UnixMilli(),
		Version:     CurrentVersion,
	}
}

// Clone returns a deep copy of the set, suitable for handing to a
// background saver while the original keeps being mutated.
func (s *TaskSet) Clone() *TaskSet {
	c := *s
	c.Tasks = make([]*Task, len(s.Tasks))
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return &c
}

// Len returns the number of tasks in the set.
func (s *TaskSet) Len() int { return len(s.Tasks) }

// Touch records a mutation time.
func (s *TaskSet) Touch(now time.Time) { s.LastUpdated = now.UnixMilli() }
