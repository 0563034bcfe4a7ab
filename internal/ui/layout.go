package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/admin-console/internal/theme"
)

// Layout manages the console's panel dimensions: a header, a sidebar of
// entries beside the content area, and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	SidebarWidth    int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		SidebarWidth:    sidebarWidth(width),
	}
}

func sidebarWidth(total int) int {
	w := total / 4
	if w < 24 {
		w = 24
	}
	if w > 36 {
		w = 36
	}
	if w > total {
		w = total
	}
	return w
}

// BodyHeight returns the height between the header and status bar.
func (l Layout) BodyHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// ContentWidth returns the width to the right of the sidebar.
func (l Layout) ContentWidth() int {
	w := l.Width - l.SidebarWidth
	if w < 0 {
		return 0
	}
	return w
}

// ContentHeight returns the height available for the content area.
func (l Layout) ContentHeight() int {
	return l.BodyHeight()
}

// RenderHeader renders the top header bar with a title on the left and
// a secondary label on the right.
func (l Layout) RenderHeader(title string, right string) string {
	return l.fillBar(theme.HeaderStyle, title, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fillBar(theme.StatusBarStyle, hints, "")
}

func (l Layout) fillBar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}

// RenderBody places the sidebar beside the content area.
func (l Layout) RenderBody(sidebar, content string) string {
	left := lipgloss.NewStyle().
		Width(l.SidebarWidth).
		Height(l.BodyHeight()).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(theme.ColorBorder).
		Render(sidebar)

	right := lipgloss.NewStyle().
		MaxWidth(l.ContentWidth()).
		Height(l.BodyHeight()).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, body, and status bar.
func (l Layout) RenderWithFrame(header, body, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}
