package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/internal/theme"
)

// Row is one visible line of a list panel: a top-level task or one of
// its subtasks.
type Row struct {
	Node  tasks.RenderNode
	Depth int
}

// FilterValue returns the string used for searching.
func (r Row) FilterValue() string { return r.Node.Task.Text }

// Flatten turns a list projection into visible rows. Subtasks follow
// their parent when it is expanded; ghost parents always show theirs.
func Flatten(nodes []tasks.RenderNode) []Row {
	var rows []Row
	for _, n := range nodes {
		rows = append(rows, Row{Node: n})
		if !n.Task.IsExpanded && !n.Ghost {
			continue
		}
		for _, c := range n.Children {
			rows = append(rows, Row{Node: c, Depth: 1})
		}
	}
	return rows
}

// delegateState is shared by reference between the Model and its
// delegate so date changes are visible without rebuilding the list.
type delegateState struct {
	today civil.Date
}

// ItemDelegate implements list.ItemDelegate for task rows.
type ItemDelegate struct {
	state *delegateState
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}

	line := d.renderRow(row)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

func (d ItemDelegate) renderRow(row Row) string {
	n := row.Node
	t := n.Task

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))

	switch {
	case n.HasChildren && t.IsExpanded:
		b.WriteString("▾ ")
	case n.HasChildren:
		b.WriteString("▸ ")
	case row.Depth == 0:
		b.WriteString("  ")
	}

	box := "□"
	if t.Completed {
		box = "✓"
	}

	text := box + " " + t.Text
	switch {
	case n.Ghost:
		text = theme.GhostStyle.Render(t.Text)
	case t.Completed:
		text = theme.CompletedStyle.Render(text)
	}
	b.WriteString(text)

	if t.Important && !n.Ghost {
		b.WriteString(theme.ImportantStyle.Render(" ★"))
	}

	if t.Deadline != nil && d.state != nil {
		days := t.Deadline.DaysSince(d.state.today)
		b.WriteString(theme.DeadlineStyle(days).Render(" ⏰ " + deadlineLabel(days, *t.Deadline)))
	}

	if !n.Ghost {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + n.MoveIcon))
	}
	return b.String()
}

// deadlineLabel describes a deadline relative to today.
func deadlineLabel(days int, d civil.Date) string {
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days <= 6:
		return fmt.Sprintf("in %dd", days)
	default:
		return d.In(time.UTC).Format("Jan 02")
	}
}
