package app

import tea "github.com/charmbracelet/bubbletea"

// redrawMsg tells the root model to rebuild both list panels.
type redrawMsg struct{}

// Redrawer turns session redraw callbacks into Bubble Tea messages.
// Signals that arrive while one is pending are coalesced.
type Redrawer struct {
	ch chan struct{}
}

// NewRedrawer creates a Redrawer. Pass its Notify method as the session's
// Redraw option.
func NewRedrawer() *Redrawer {
	return &Redrawer{ch: make(chan struct{}, 1)}
}

// Notify requests a redraw without blocking.
func (r *Redrawer) Notify() {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

// wait returns a command that blocks until the next redraw request.
func (r *Redrawer) wait() tea.Cmd {
	return func() tea.Msg {
		<-r.ch
		return redrawMsg{}
	}
}
