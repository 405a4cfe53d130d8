package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/do-it-later/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Apply forces the adaptive colors to the dark or light variant instead
// of relying on terminal background detection.
func Apply(name string) {
	lipgloss.SetHasDarkBackground(name != model.ThemeLight)
}

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps an unfocused list panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedPanelStyle wraps the list panel that has keyboard focus.
var FocusedPanelStyle = PanelStyle.
	BorderForeground(ColorBlue)

// DetailPanelStyle wraps overlays such as help and the QR view.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for rows in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused row.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CompletedStyle renders finished tasks.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// ImportantStyle renders the importance marker.
var ImportantStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// GhostStyle renders a parent shown only as context for its subtasks.
var GhostStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// NoticeStyle is used for transient status messages.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// ErrorStyle is used for failures surfaced in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ListTitleStyle returns the panel heading style for a list.
func ListTitleStyle(list model.List) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	if list == model.ListToday {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorMagenta)
}

// DeadlineStyle returns a color-coded style for a deadline that is
// daysLeft days away; negative values are overdue.
func DeadlineStyle(daysLeft int) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch {
	case daysLeft < 0:
		return base.Bold(true).Foreground(ColorRed)
	case daysLeft == 0:
		return base.Bold(true).Foreground(ColorOrange)
	case daysLeft <= 3:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
