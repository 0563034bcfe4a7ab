package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/admin-console/internal/keys"
	"github.com/nhle/admin-console/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: keys, help: h}
	m.SetSize(width, height)
	return m
}

// View renders the overlay. context, when non-empty, is shown under the
// title to name the entry the shortcuts apply to.
func (m Model) View(context string) string {
	parts := []string{theme.TitleStyle.Render("Keyboard Shortcuts")}
	if context != "" {
		parts = append(parts, theme.HelpStyle.Render(context), "")
	}
	parts = append(parts, m.help.View(m.keys))

	return theme.PanelStyle.
		Width(m.innerWidth()).
		Height(m.innerHeight()).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = m.innerWidth()
}

func (m Model) innerWidth() int {
	if m.width < 4 {
		return 0
	}
	return m.width - 4
}

func (m Model) innerHeight() int {
	if m.height < 4 {
		return 0
	}
	return m.height - 4
}
