package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/theme"
)

// Layout splits the terminal into a header, two side-by-side list
// panels and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height available for the panels.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// PanelWidth returns the outer width of one of the two list panels.
func (l Layout) PanelWidth() int {
	return l.Width / 2
}

// PanelInnerSize returns the space inside a panel's border and padding.
func (l Layout) PanelInnerSize() (width, height int) {
	frameW, frameH := theme.PanelStyle.GetFrameSize()
	return max(l.PanelWidth()-frameW, 0), max(l.ContentHeight()-frameH, 0)
}

// RenderHeader renders the top bar with the title on the left and the
// status text right-aligned.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// RenderStatusBar renders the bottom bar padded to the full width.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := max(l.Width-lipgloss.Width(rendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderPanels frames the two list views, highlighting the focused one.
func (l Layout) RenderPanels(left, right string, focusLeft bool) string {
	w, h := l.PanelInnerSize()

	leftStyle, rightStyle := theme.PanelStyle, theme.FocusedPanelStyle
	if focusLeft {
		leftStyle, rightStyle = theme.FocusedPanelStyle, theme.PanelStyle
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Width(w).Height(h).Render(left),
		rightStyle.Width(w).Height(h).Render(right),
	)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
