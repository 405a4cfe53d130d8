package app

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Clipboard is the system clipboard as seen by the app.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the OS clipboard.
func SystemClipboard() Clipboard { return systemClipboard{} }

// clipboardWrittenMsg reports the outcome of a copy.
type clipboardWrittenMsg struct {
	what string
	err  error
}

// clipboardReadMsg carries pasted text destined for a merge import.
type clipboardReadMsg struct {
	text string
	err  error
}

func writeClipboard(c Clipboard, what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardWrittenMsg{what: what, err: c.WriteAll(text)}
	}
}

func readClipboard(c Clipboard) tea.Cmd {
	return func() tea.Msg {
		text, err := c.ReadAll()
		return clipboardReadMsg{text: text, err: err}
	}
}
