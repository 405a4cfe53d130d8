// Package rollover implements the once-per-day transition of a task set:
// clearing finished work, surfacing stale later tasks and reacting to
// deadlines.
package rollover

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/nhle/do-it-later/internal/model"
)

const (
	// PromoteAfter is how long an incomplete later task waits before it
	// is moved to today.
	PromoteAfter = 7 * 24 * time.Hour

	// ImportantWithinDays marks tasks important when their deadline is at
	// most this many days away, including overdue ones.
	ImportantWithinDays = 3
)

// Due reports whether set has not been rolled over on the calendar day of
// now. Future dates from clock skew count as stale too.
func Due(set *model.TaskSet, now time.Time) bool {
	return set.CurrentDate != civil.DateOf(now).String()
}

// Run performs the rollover when it is due and reports what changed.
// Running it again on the same day is a no-op. The day is taken from
// now's location.
func Run(set *model.TaskSet, now time.Time) Report {
	today := civil.DateOf(now)
	if !Due(set, now) {
		return Report{Date: today}
	}

	r := Report{Rolled: true, Date: today, Previous: set.CurrentDate}

	// Completed tasks go first, in both lists.
	before := len(set.Tasks)
	set.Tasks = slices.DeleteFunc(set.Tasks, func(t *model.Task) bool { return t.Completed })
	r.Cleaned = before - len(set.Tasks)

	remaining := make(map[string]bool, len(set.Tasks))
	for _, t := range set.Tasks {
		remaining[t.ID] = true
	}
	for _, t := range set.Tasks {
		if t.ParentID != "" && !remaining[t.ParentID] {
			t.ParentID = ""
			r.Orphaned++
		}
	}

	cutoff := now.UnixMilli() - PromoteAfter.Milliseconds()
	for _, t := range set.Tasks {
		if t.List == model.ListLater && t.CreatedAt <= cutoff {
			t.List = model.ListToday
			r.Promoted++
		}
	}

	soon := today.AddDays(ImportantWithinDays)
	for _, t := range set.Tasks {
		if t.Deadline == nil {
			continue
		}
		if *t.Deadline == today && t.List == model.ListLater {
			t.List = model.ListToday
			r.DeadlineMoved++
		}
		if !t.Deadline.After(soon) && !t.Important {
			t.Important = true
			r.MarkedImportant++
		}
	}

	set.CurrentDate = today.String()
	set.Touch(now)
	return r
}
