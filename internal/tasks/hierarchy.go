package tasks

import (
	"cmp"
	"slices"

	"github.com/nhle/do-it-later/internal/model"
)

// Toggle is the outcome of ToggleCompletion.
type Toggle struct {
	// NewState is the completion flag of the toggled task.
	NewState bool

	// Cascaded lists the other tasks whose completion flag changed.
	Cascaded []*model.Task
}

// ToggleCompletion flips a task's completion state and cascades:
// a top-level task drags all of its subtasks (in either list) to the same
// state; a subtask completing the last open sibling completes its parent,
// and a subtask reopening reopens a completed parent. The second return
// value is false when id does not exist.
func (m *Manager) ToggleCompletion(id string) (Toggle, bool) {
	t, ok := m.FindByID(id)
	if !ok {
		return Toggle{}, false
	}

	m.setCompleted(t, !t.Completed)
	res := Toggle{NewState: t.Completed}

	if !t.IsSubtask() {
		for _, child := range m.Children(t.ID, nil) {
			if m.setCompleted(child, t.Completed) {
				res.Cascaded = append(res.Cascaded, child)
			}
		}
	} else if parent, ok := m.FindByID(t.ParentID); ok {
		switch {
		case t.Completed && !parent.Completed && m.allChildrenCompleted(parent.ID):
			m.setCompleted(parent, true)
			res.Cascaded = append(res.Cascaded, parent)
		case !t.Completed && parent.Completed:
			m.setCompleted(parent, false)
			res.Cascaded = append(res.Cascaded, parent)
		}
	}

	m.touch()
	return res, true
}

func (m *Manager) allChildrenCompleted(parentID string) bool {
	children := m.Children(parentID, nil)
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if !c.Completed {
			return false
		}
	}
	return true
}

// ToggleImportance flips the important flag. Importance never cascades.
func (m *Manager) ToggleImportance(id string) (*model.Task, bool) {
	t, ok := m.FindByID(id)
	if !ok {
		return nil, false
	}
	t.Important = !t.Important
	m.touch()
	return t, true
}

// DeleteWithSubtasks removes a top-level task together with every
// subtask in either list, or a single subtask. It returns the number of
// tasks removed, zero when id does not exist.
func (m *Manager) DeleteWithSubtasks(id string) int {
	t, ok := m.FindByID(id)
	if !ok {
		return 0
	}

	removed := 0
	if !t.IsSubtask() {
		for _, child := range m.Children(id, nil) {
			if m.RemoveByID(child.ID) {
				removed++
			}
		}
	}
	if m.RemoveByID(id) {
		removed++
	}
	return removed
}

// MoveTask changes a task's list. A subtask moves alone and its parent
// stays where it is; a top-level task takes all of its subtasks along.
func (m *Manager) MoveTask(id string, target model.List) bool {
	t, ok := m.FindByID(id)
	if !ok {
		return false
	}

	t.List = target
	if !t.IsSubtask() {
		for _, child := range m.Children(id, nil) {
			child.List = target
		}
	}
	m.touch()
	return true
}

// Children returns the subtasks of parentID in set order. A nil list
// returns children from both lists.
func (m *Manager) Children(parentID string, list *model.List) []*model.Task {
	var out []*model.Task
	for _, t := range m.set.Tasks {
		if t.ParentID != parentID || parentID == "" {
			continue
		}
		if list != nil && t.List != *list {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortForDisplay returns a stably sorted copy of tasks: important tasks
// first, then newest first. Completion does not affect the order.
func SortForDisplay(tasks []*model.Task) []*model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b *model.Task) int {
		if a.Important != b.Important {
			if a.Important {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}
