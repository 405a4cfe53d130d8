package tasklist

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/keys"
	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/internal/theme"
)

// Model is one list panel (Today or Later).
type Model struct {
	list        list.Model
	kind        model.List
	keys        *keys.KeyMap
	state       *delegateState
	rows        []Row
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a panel for the given list.
func New(kind model.List, k *keys.KeyMap, width, height int) Model {
	state := &delegateState{}
	l := list.New([]list.Item{}, ItemDelegate{state: state}, width, max(height-2, 0))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "search " + strings.ToLower(kind.Title()) + "..."
	si.Prompt = "/ "
	si.Width = max(width-4, 0)

	return Model{
		list:        l,
		kind:        kind,
		keys:        k,
		state:       state,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Kind returns the list this panel shows.
func (m Model) Kind() model.List { return m.kind }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

// SetNodes replaces the panel contents, keeping the cursor on the same
// task when it is still visible.
func (m *Model) SetNodes(nodes []tasks.RenderNode, today civil.Date) tea.Cmd {
	m.state.today = today

	selected := ""
	if row, ok := m.Selected(); ok {
		selected = row.Node.Task.ID
	}

	m.rows = Flatten(nodes)
	return m.applyRows(selected)
}

func (m *Model) applyRows(selected string) tea.Cmd {
	visible := m.rows
	if m.query != "" {
		visible = filterRows(m.rows, m.query)
	}

	items := make([]list.Item, len(visible))
	for i, r := range visible {
		items[i] = r
	}
	cmd := m.list.SetItems(items)

	for i, r := range visible {
		if r.Node.Task.ID == selected {
			m.list.Select(i)
			break
		}
	}
	return cmd
}

func filterRows(rows []Row, query string) []Row {
	query = strings.ToLower(query)
	var out []Row
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Node.Task.Text), query) {
			out = append(out, r)
		}
	}
	return out
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	row, ok := m.list.SelectedItem().(Row)
	return row, ok
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		if key.Matches(msg, m.keys.Search) {
			m.searchMode = true
			m.searchInput.SetValue(m.query)
			cmd := m.searchInput.Focus()
			return m, cmd
		}
		if key.Matches(msg, m.keys.Back) && m.query != "" {
			m.query = ""
			cmd := m.applyRows(m.selectedID())
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selectedID() string {
	if row, ok := m.Selected(); ok {
		return row.Node.Task.ID
	}
	return ""
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		m.query = strings.TrimSpace(m.searchInput.Value())
		cmd := m.applyRows(m.selectedID())
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.query = ""
		cmd := m.applyRows(m.selectedID())
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View renders the panel body.
func (m Model) View() string {
	open := 0
	for _, r := range m.rows {
		if !r.Node.Task.Completed && !r.Node.Ghost {
			open++
		}
	}
	title := theme.ListTitleStyle(m.kind).Render(fmt.Sprintf("%s (%d)", m.kind.Title(), open))

	var body string
	switch {
	case m.searchMode:
		body = lipgloss.JoinVertical(lipgloss.Left, m.searchInput.View(), m.list.View())
	case len(m.list.Items()) == 0:
		body = m.renderEmptyState()
	default:
		body = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// renderEmptyState shows guidance text when the panel has no rows.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-2, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching tasks.\nPress esc to clear the search.")
	}
	return style.Render(fmt.Sprintf("No tasks for %s.\n\nPress n to add one.", strings.ToLower(m.kind.Title())))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-2, 0))
	m.searchInput.Width = max(width-4, 0)
}
