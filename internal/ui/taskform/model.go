package taskform

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeAdd Mode = iota
	ModeSubtask
	ModeEdit
	ModeDeadline
	ModeImport
)

// SubmittedMsg is dispatched when the user completes a form. Only the
// fields relevant to Mode are set.
type SubmittedMsg struct {
	Mode Mode

	// TaskID is the task being edited, or the parent for ModeSubtask.
	TaskID string

	Text     string
	List     model.List
	Deadline *civil.Date

	Payload   string
	MergeMode sync.MergeMode
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text      string
	list      model.List
	deadline  string
	payload   string
	mergeMode sync.MergeMode
}

// Model is the Bubble Tea model for every task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	taskID string
	title  string
	width  int
	height int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{list: model.ListToday, mergeMode: sync.ModeMerge},
		width:  width,
		height: height,
	}
}

// Mode returns the active form mode.
func (m Model) Mode() Mode { return m.mode }

// StartAdd opens the new task form with list preselected.
func (m *Model) StartAdd(list model.List) tea.Cmd {
	m.reset(ModeAdd, "", "New Task")
	m.fb.list = list
	return m.build(
		m.textField(),
		huh.NewSelect[model.List]().
			Title("List").
			Options(
				huh.NewOption(model.ListToday.Title(), model.ListToday),
				huh.NewOption(model.ListLater.Title(), model.ListLater),
			).
			Value(&m.fb.list),
		m.deadlineField(),
	)
}

// StartSubtask opens the form for a new subtask of parent, placed in list.
func (m *Model) StartSubtask(parent model.Task, list model.List) tea.Cmd {
	m.reset(ModeSubtask, parent.ID, "New Subtask of "+truncate(parent.Text, 40))
	m.fb.list = list
	return m.build(m.textField())
}

// StartEdit opens the text editor for task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.reset(ModeEdit, task.ID, "Edit Task")
	m.fb.text = task.Text
	return m.build(m.textField())
}

// StartDeadline opens the deadline editor for task. Submitting an empty
// date clears the deadline.
func (m *Model) StartDeadline(task model.Task) tea.Cmd {
	m.reset(ModeDeadline, task.ID, "Deadline for "+truncate(task.Text, 40))
	if task.Deadline != nil {
		m.fb.deadline = task.Deadline.String()
	}
	return m.build(m.deadlineField())
}

// StartImport opens the import form, prefilled with payload.
func (m *Model) StartImport(payload string) tea.Cmd {
	m.reset(ModeImport, "", "Import Tasks")
	m.fb.payload = payload
	return m.build(
		huh.NewText().
			Title("Payload").
			Description("Text export, sync code or saved JSON").
			Lines(8).
			Value(&m.fb.payload).
			Validate(validateRequired),
		huh.NewSelect[sync.MergeMode]().
			Title("Mode").
			Options(
				huh.NewOption("Merge with current tasks", sync.ModeMerge),
				huh.NewOption("Replace current tasks", sync.ModeReplace),
			).
			Value(&m.fb.mergeMode),
	)
}

func (m *Model) reset(mode Mode, taskID, title string) {
	m.mode = mode
	m.taskID = taskID
	m.title = title
	*m.fb = formBindings{list: model.ListToday, mergeMode: sync.ModeMerge}
}

func (m *Model) build(fields ...huh.Field) tea.Cmd {
	m.form = huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

func (m *Model) textField() huh.Field {
	return huh.NewInput().
		Title("Task").
		Placeholder("What needs to be done?").
		CharLimit(model.MaxTaskLength).
		Value(&m.fb.text).
		Validate(model.ValidateText)
}

func (m *Model) deadlineField() huh.Field {
	return huh.NewInput().
		Title("Deadline").
		Placeholder("YYYY-MM-DD (optional)").
		Value(&m.fb.deadline).
		Validate(validateOptionalDate)
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.title) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmittedMsg{
		Mode:      m.mode,
		TaskID:    m.taskID,
		Text:      strings.TrimSpace(m.fb.text),
		List:      m.fb.list,
		Payload:   m.fb.payload,
		MergeMode: m.fb.mergeMode,
	}
	// Already validated by the field.
	msg.Deadline, _ = model.ParseDeadline(m.fb.deadline)

	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("nothing to import")
	}
	return nil
}

func validateOptionalDate(s string) error {
	_, err := model.ParseDeadline(s)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
