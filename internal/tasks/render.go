package tasks

import "github.com/nhle/do-it-later/internal/model"

// Move actions offered on a rendered row.
const (
	MovePush = "push"
	MovePull = "pull"
)

// RenderNode is one row of a list projection. Nodes carry copies so the
// renderer can never mutate the set.
type RenderNode struct {
	Task model.Task

	// HasChildren reports whether the task has subtasks in any list.
	HasChildren bool

	// Children are the subtasks living in the projected list, sorted for
	// display independently of their parent.
	Children []RenderNode

	// MoveAction is MovePush for today rows and MovePull for later rows.
	MoveAction string
	MoveIcon   string

	// Ghost marks a parent that lives in the other list and is only shown
	// as a header for its subtasks in this one.
	Ghost bool
}

// RenderList builds the read-only display projection for list: sorted
// top-level rows, each with its sorted subtasks from the same list.
func (m *Manager) RenderList(list model.List) []RenderNode {
	var roots []*model.Task
	ghosts := make(map[string]bool)
	seen := make(map[string]bool)

	for _, t := range m.set.Tasks {
		if !t.IsSubtask() {
			if t.List == list && !seen[t.ID] {
				roots = append(roots, t)
				seen[t.ID] = true
			}
			continue
		}
		if t.List != list {
			continue
		}
		parent, ok := m.FindByID(t.ParentID)
		if !ok {
			// Orphaned subtasks render as top-level rows.
			if !seen[t.ID] {
				roots = append(roots, t)
				seen[t.ID] = true
			}
			continue
		}
		if parent.List != list && !seen[parent.ID] {
			roots = append(roots, parent)
			seen[parent.ID] = true
			ghosts[parent.ID] = true
		}
	}

	nodes := make([]RenderNode, 0, len(roots))
	for _, t := range SortForDisplay(roots) {
		n := newRenderNode(t, list)
		n.Ghost = ghosts[t.ID]
		if !t.IsSubtask() {
			n.HasChildren = len(m.Children(t.ID, nil)) > 0
			for _, c := range SortForDisplay(m.Children(t.ID, &list)) {
				n.Children = append(n.Children, newRenderNode(c, list))
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func newRenderNode(t *model.Task, list model.List) RenderNode {
	n := RenderNode{Task: *t.Clone()}
	if list == model.ListToday {
		n.MoveAction, n.MoveIcon = MovePush, "→"
	} else {
		n.MoveAction, n.MoveIcon = MovePull, "←"
	}
	return n
}
