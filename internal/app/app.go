package app

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/keys"
	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/session"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/theme"
	"github.com/nhle/do-it-later/internal/ui"
	"github.com/nhle/do-it-later/internal/ui/command"
	helpview "github.com/nhle/do-it-later/internal/ui/help"
	"github.com/nhle/do-it-later/internal/ui/taskform"
	"github.com/nhle/do-it-later/internal/ui/tasklist"
)

// rolloverCheckInterval is how often a running app checks whether the day
// has changed.
const rolloverCheckInterval = time.Minute

// rolloverTickMsg fires every rolloverCheckInterval.
type rolloverTickMsg time.Time

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewForm
	ViewQR
)

// Options configures New.
type Options struct {
	Session  *session.Session
	Redrawer *Redrawer

	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard

	// Theme is the initial theme name.
	Theme string

	// Opened is the rollover report from opening the session; its summary
	// is shown in the status bar.
	Opened rollover.Report
}

// Model is the root Bubble Tea model. It routes input between the two
// list panels and the overlays, and applies every change through the
// session so it is saved and redrawn.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	session      *session.Session
	redraw       *Redrawer
	clip         Clipboard
	keys         *keys.KeyMap
	today        tasklist.Model
	later        tasklist.Model
	focus        model.List
	helpView     helpview.Model
	commandView  command.Model
	formView     taskform.Model
	theme        string
	qr           string
	status       string
	statusErr    bool
	ready        bool
}

// New creates the root model over an open session.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	if opts.Redrawer == nil {
		opts.Redrawer = NewRedrawer()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard()
	}
	if opts.Theme != model.ThemeLight {
		opts.Theme = model.ThemeDark
	}
	theme.Apply(opts.Theme)

	m := Model{
		currentView: ViewList,
		session:     opts.Session,
		redraw:      opts.Redrawer,
		clip:        opts.Clipboard,
		keys:        k,
		today:       tasklist.New(model.ListToday, k, 40, 20),
		later:       tasklist.New(model.ListLater, k, 40, 20),
		focus:       model.ListToday,
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		formView:    taskform.New(80, 24),
		theme:       opts.Theme,
	}
	m.status = opts.Opened.Summary()
	m.refresh()
	return m
}

// Init starts listening for redraw requests and schedules the periodic
// rollover check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.redraw.wait(), tickRollover())
}

func tickRollover() tea.Cmd {
	return tea.Tick(rolloverCheckInterval, func(t time.Time) tea.Msg {
		return rolloverTickMsg(t)
	})
}

// Focus returns the list whose panel has keyboard focus.
func (m Model) Focus() model.List { return m.focus }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Status returns the status bar message, if any.
func (m Model) Status() string { return m.status }

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		pw, ph := m.layout.PanelInnerSize()
		m.today.SetSize(pw, ph)
		m.later.SetSize(pw, ph)
		m.helpView.SetSize(msg.Width, m.layout.ContentHeight())
		m.commandView.SetSize(msg.Width, m.layout.ContentHeight())
		m.formView.SetSize(msg.Width, m.layout.ContentHeight())
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case redrawMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.redraw.wait())

	case rolloverTickMsg:
		if summary := m.session.CheckRollover().Summary(); summary != "" {
			m.setStatus(summary)
		}
		return m, tickRollover()

	case clipboardWrittenMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("copying to clipboard: %w", msg.err))
		} else {
			m.setStatus(msg.what + " copied to clipboard")
		}
		return m, nil

	case clipboardReadMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("reading clipboard: %w", msg.err))
			return m, nil
		}
		cmd := m.importPayload(msg.text, sync.ModeMerge)
		return m, cmd

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		cmd := m.submit(msg)
		return m, cmd

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = ViewList
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewList:
			if !m.panel().Searching() {
				if next, cmd, ok := m.handleListKeys(msg); ok {
					return next, cmd
				}
			}

		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.currentView = m.previousView
				return m, nil
			}

		case ViewQR:
			if key.Matches(msg, m.keys.ShowQR, m.keys.Back, m.keys.Quit) {
				m.currentView = m.previousView
				return m, nil
			}

		case ViewForm, ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		if m.focus == model.ListToday {
			m.today, cmd = m.today.Update(msg)
		} else {
			m.later, cmd = m.later.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// panel returns the focused list panel.
func (m *Model) panel() *tasklist.Model {
	if m.focus == model.ListToday {
		return &m.today
	}
	return &m.later
}

// refresh rebuilds both panels from the live task set.
func (m *Model) refresh() tea.Cmd {
	tm := m.session.Tasks()
	today := civil.DateOf(m.session.Now())
	m.helpView.SetCompleted(m.session.Set().TotalCompleted)

	return tea.Batch(
		m.today.SetNodes(tm.RenderList(model.ListToday), today),
		m.later.SetNodes(tm.RenderList(model.ListLater), today),
	)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := sync.AppName + " - " + m.session.Now().Format("Monday, January 2")
	header := m.layout.RenderHeader(title, m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	case ViewQR:
		return theme.DetailPanelStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.qr,
			theme.HelpStyle.Render("Scan to import your open tasks on another device."),
		))
	default:
		return m.layout.RenderPanels(m.today.View(), m.later.View(), m.focus == model.ListToday)
	}
}

// headerStatus summarizes the lifetime counter and save health.
func (m Model) headerStatus() string {
	s := fmt.Sprintf("✓ %d completed", m.session.Set().TotalCompleted)
	if m.session.Saver().LastError() != nil {
		s += " · save failed"
	}
	return s
}

// statusLine returns the pending status message, or key hints.
func (m Model) statusLine() string {
	if m.status != "" && m.currentView == ViewList {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return theme.NoticeStyle.Render(m.status)
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewQR:
		return "esc back"
	default:
		return "tab switch | space done | m push/pull | n new | s subtask | y copy | ? help | q quit"
	}
}
