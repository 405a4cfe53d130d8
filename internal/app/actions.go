package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/internal/theme"
	"github.com/nhle/do-it-later/internal/ui/taskform"
)

// storeTimeout bounds the synchronous store calls made from Update.
const storeTimeout = 5 * time.Second

var errNoSubtaskNesting = errors.New("subtasks cannot have subtasks")

// handleListKeys applies a key pressed while the panels have focus. The
// final result is false when the key belongs to the focused panel.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, k.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, k.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, k.SwitchList):
		m.focus = m.focus.Other()
		return m, nil, true

	case key.Matches(msg, k.Add):
		cmd := m.openForm(m.formView.StartAdd(m.focus))
		return m, cmd, true

	case key.Matches(msg, k.Import):
		cmd := m.openForm(m.formView.StartImport(""))
		return m, cmd, true

	case key.Matches(msg, k.CopySync):
		cmd := m.copySync()
		return m, cmd, true

	case key.Matches(msg, k.CopyText):
		return m, writeClipboard(m.clip, "Text export", sync.EncodeText(m.session.Set(), m.session.Now())), true

	case key.Matches(msg, k.Paste):
		return m, readClipboard(m.clip), true

	case key.Matches(msg, k.ShowQR):
		m.showQR()
		return m, nil, true

	case key.Matches(msg, k.UndoImport):
		cmd := m.restore()
		return m, cmd, true

	case key.Matches(msg, k.Theme):
		next := model.ThemeLight
		if m.theme == model.ThemeLight {
			next = model.ThemeDark
		}
		m.applyTheme(next)
		return m, nil, true
	}

	row, ok := m.panel().Selected()
	if !ok {
		return m, nil, false
	}
	t := row.Node.Task

	switch {
	case key.Matches(msg, k.Toggle):
		var res tasks.Toggle
		cmd, ok := m.mutate(func(tm *tasks.Manager) error {
			r, ok := tm.ToggleCompletion(t.ID)
			if !ok {
				return fmt.Errorf("completing task %s: %w", t.ID, model.ErrNotFound)
			}
			res = r
			return nil
		})
		switch {
		case !ok:
		case res.NewState:
			m.setStatus("Done: " + t.Text)
		default:
			m.setStatus("Reopened: " + t.Text)
		}
		return m, cmd, true

	case key.Matches(msg, k.Important):
		cmd, _ := m.mutate(func(tm *tasks.Manager) error {
			if _, ok := tm.ToggleImportance(t.ID); !ok {
				return fmt.Errorf("marking task %s: %w", t.ID, model.ErrNotFound)
			}
			return nil
		})
		return m, cmd, true

	case key.Matches(msg, k.Move):
		target := t.List.Other()
		cmd, ok := m.mutate(func(tm *tasks.Manager) error {
			if !tm.MoveTask(t.ID, target) {
				return fmt.Errorf("moving task %s: %w", t.ID, model.ErrNotFound)
			}
			return nil
		})
		if ok {
			m.setStatus(fmt.Sprintf("Moved to %s: %s", target.Title(), t.Text))
		}
		return m, cmd, true

	case key.Matches(msg, k.Delete):
		var removed int
		cmd, _ := m.mutate(func(tm *tasks.Manager) error {
			removed = tm.DeleteWithSubtasks(t.ID)
			return nil
		})
		if removed > 1 {
			m.setStatus(fmt.Sprintf("Deleted %q and %d subtasks", t.Text, removed-1))
		} else {
			m.setStatus("Deleted: " + t.Text)
		}
		return m, cmd, true

	case key.Matches(msg, k.Expand):
		if !row.Node.HasChildren {
			return m, nil, true
		}
		cmd, _ := m.mutate(func(tm *tasks.Manager) error {
			tm.ToggleExpanded(t.ID)
			return nil
		})
		return m, cmd, true

	case key.Matches(msg, k.AddSubtask):
		if t.IsSubtask() {
			m.setError(errNoSubtaskNesting)
			return m, nil, true
		}
		cmd := m.openForm(m.formView.StartSubtask(t, m.focus))
		return m, cmd, true

	case key.Matches(msg, k.Edit):
		cmd := m.openForm(m.formView.StartEdit(t))
		return m, cmd, true

	case key.Matches(msg, k.Deadline):
		cmd := m.openForm(m.formView.StartDeadline(t))
		return m, cmd, true
	}

	return m, nil, false
}

func (m *Model) openForm(init tea.Cmd) tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewForm
	m.status = ""
	return init
}

// mutate applies fn through the session so the change is saved, then
// rebuilds the panels. It reports whether fn succeeded; on failure the
// error is shown in the status bar.
func (m *Model) mutate(fn func(tm *tasks.Manager) error) (tea.Cmd, bool) {
	err := m.session.Update(fn)
	if err != nil {
		m.setError(err)
	}
	return m.refresh(), err == nil
}

// submit applies a completed form.
func (m *Model) submit(msg taskform.SubmittedMsg) tea.Cmd {
	switch msg.Mode {
	case taskform.ModeAdd, taskform.ModeSubtask:
		parentID := ""
		if msg.Mode == taskform.ModeSubtask {
			parentID = msg.TaskID
		}
		cmd, ok := m.mutate(func(tm *tasks.Manager) error {
			t, err := tm.AddTask(msg.Text, msg.List, parentID)
			if err != nil {
				return err
			}
			if msg.Deadline != nil {
				tm.SetDeadline(t.ID, msg.Deadline)
			}
			return nil
		})
		if ok {
			m.focus = msg.List
			m.setStatus("Added to " + msg.List.Title())
		}
		return cmd

	case taskform.ModeEdit:
		cmd, _ := m.mutate(func(tm *tasks.Manager) error {
			return tm.EditText(msg.TaskID, msg.Text)
		})
		return cmd

	case taskform.ModeDeadline:
		cmd, ok := m.mutate(func(tm *tasks.Manager) error {
			if _, ok := tm.SetDeadline(msg.TaskID, msg.Deadline); !ok {
				return fmt.Errorf("setting deadline on %s: %w", msg.TaskID, model.ErrNotFound)
			}
			return nil
		})
		if ok {
			if msg.Deadline == nil {
				m.setStatus("Deadline cleared")
			} else {
				m.setStatus("Deadline set to " + msg.Deadline.String())
			}
		}
		return cmd

	case taskform.ModeImport:
		return m.importPayload(msg.Payload, msg.MergeMode)
	}
	return nil
}

func (m *Model) importPayload(payload string, mode sync.MergeMode) tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	format, err := m.session.Import(ctx, payload, mode)
	if err != nil {
		m.setError(err)
		return nil
	}

	status := fmt.Sprintf("Imported %s (%s)", format, mode)
	if mode == sync.ModeReplace {
		status += ", press u to undo"
	}
	m.setStatus(status)
	return m.refresh()
}

func (m *Model) restore() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := m.session.Restore(ctx); err != nil {
		m.setError(err)
		return nil
	}
	m.setStatus("Restored the tasks from before the last import")
	return m.refresh()
}

func (m *Model) applyTheme(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := m.session.SetTheme(ctx, name); err != nil {
		m.setError(err)
		return
	}
	m.theme = name
	theme.Apply(name)
	m.setStatus("Theme: " + name)
}

func (m *Model) copySync() tea.Cmd {
	payload := sync.EncodeSync(m.session.Set())
	if payload == "" {
		m.setStatus("No open tasks to share")
		return nil
	}
	return writeClipboard(m.clip, "Sync code", payload)
}

func (m *Model) showQR() {
	payload := sync.EncodeSync(m.session.Set())
	if payload == "" {
		m.setStatus("No open tasks to share")
		return
	}
	code, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		m.setError(fmt.Errorf("rendering QR code: %w", err))
		return
	}
	m.qr = code.ToSmallString(false)
	m.previousView = m.currentView
	m.currentView = ViewQR
}

// executeCommand runs a command palette entry.
func (m Model) executeCommand(input string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")

	switch name {
	case "export":
		switch arg {
		case "", "sync":
			cmd := m.copySync()
			return m, cmd
		case "text":
			return m, writeClipboard(m.clip, "Text export", sync.EncodeText(m.session.Set(), m.session.Now()))
		case "json":
			payload, err := sync.EncodeJSON(m.session.Set())
			if err != nil {
				m.setError(err)
				return m, nil
			}
			return m, writeClipboard(m.clip, "JSON export", payload)
		}

	case "import":
		cmd := m.openForm(m.formView.StartImport(""))
		return m, cmd

	case "qr":
		m.showQR()
		return m, nil

	case "rollover":
		report := m.session.CheckRollover()
		if summary := report.Summary(); summary != "" {
			m.setStatus(summary)
		} else {
			m.setStatus("Already up to date for " + report.Date.String())
		}
		cmd := m.refresh()
		return m, cmd

	case "restore", "undo":
		cmd := m.restore()
		return m, cmd

	case "theme":
		m.applyTheme(arg)
		return m, nil

	case "quit", "q":
		return m, tea.Quit
	}

	m.setError(fmt.Errorf("unknown command %q", input))
	return m, nil
}
