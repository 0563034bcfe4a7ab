package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/admin-console/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the top header bar.
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

// PanelStyle wraps a content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle renders a panel title.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// SectionStyle renders a sidebar section heading.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// LabelStyle renders a form field label; FocusedLabelStyle marks the
// field holding focus.
var (
	LabelStyle        = lipgloss.NewStyle().Foreground(ColorGray)
	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
)

// ButtonStyle renders the primary form button.
var ButtonStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 2)

// FocusedButtonStyle renders the button while it holds focus.
var FocusedButtonStyle = ButtonStyle.
	Background(ColorBlue).
	Bold(true)

// DisabledButtonStyle renders the button while submission is blocked.
var DisabledButtonStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 2).
	Strikethrough(true)

// SuccessStyle and ErrorStyle render transient flash messages.
var (
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SeverityStyle returns a color-coded style for a notification severity.
func SeverityStyle(s model.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch s {
	case model.SeverityCritical:
		return base.Foreground(ColorRed)
	case model.SeverityWarning:
		return base.Foreground(ColorYellow)
	case model.SeverityInformational:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
