package app

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/keys"
	"github.com/nhle/admin-console/internal/plugin"
	"github.com/nhle/admin-console/internal/theme"
	"github.com/nhle/admin-console/internal/ui"
	helpview "github.com/nhle/admin-console/internal/ui/help"
)

// Focus identifies which panel receives key input.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusContent
)

// Model is the root Bubble Tea model. It lists registered entries in a
// sidebar and mounts the selected one in the content area.
type Model struct {
	registry *plugin.Registry
	deps     plugin.Deps
	keys     *keys.KeyMap
	layout   ui.Layout
	helpView helpview.Model

	entries []plugin.Plugin
	cursor  int

	active  *plugin.Plugin
	current plugin.Component

	focus    Focus
	showHelp bool
	ready    bool
	badge    string
}

// New creates the root model. badge is shown on the right of the header,
// typically the backend mode.
func New(r *plugin.Registry, deps plugin.Deps, badge string) Model {
	k := keys.DefaultKeyMap()
	if deps.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		deps.Logger = l
	}

	var entries []plugin.Plugin
	for _, s := range r.Sections() {
		entries = append(entries, s.Entries...)
	}

	return Model{
		registry: r,
		deps:     deps,
		keys:     k,
		layout:   ui.NewLayout(80, 24),
		helpView: helpview.New(k, 80, 24),
		entries:  entries,
		badge:    badge,
	}
}

// Init mounts nothing; the admin picks an entry from the sidebar.
func (m Model) Init() tea.Cmd {
	return nil
}

// Active returns the mounted entry, if any.
func (m Model) Active() (plugin.Plugin, bool) {
	if m.active == nil {
		return plugin.Plugin{}, false
	}
	return *m.active, true
}

// Current returns the mounted component, or nil.
func (m Model) Current() plugin.Component {
	return m.current
}

// Focus returns the panel holding key focus.
func (m Model) Focus() Focus {
	return m.focus
}

// Update handles messages and routes the rest to the mounted component.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.helpView.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		if m.current != nil {
			m.current.SetSize(m.layout.ContentWidth(), m.contentBodyHeight())
		}
		return m, nil

	case plugin.OpenMsg:
		p, ok := m.registry.Lookup(msg.Section, msg.Name)
		if !ok {
			m.deps.Logger.WithField("entry", msg.Section+"/"+msg.Name).Warn("open request for unknown entry")
			return m, nil
		}
		return m.mount(p, msg.Attrs)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateCurrent(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.focus == FocusContent && m.current != nil {
		if key.Matches(msg, m.keys.Back) {
			m.focus = FocusSidebar
			return m, nil
		}
		return m.updateCurrent(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if len(m.entries) > 0 {
			m.cursor = (m.cursor + 1) % len(m.entries)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.entries) > 0 {
			m.cursor = (m.cursor + len(m.entries) - 1) % len(m.entries)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.entries) == 0 {
			return m, nil
		}
		return m.mount(m.entries[m.cursor], plugin.Attrs{})

	case key.Matches(msg, m.keys.NextField):
		if m.current != nil {
			m.focus = FocusContent
		}
		return m, nil
	}

	return m, nil
}

// mount disposes the current component and starts a fresh one for p.
func (m Model) mount(p plugin.Plugin, attrs plugin.Attrs) (tea.Model, tea.Cmd) {
	if m.current != nil {
		m.current.Dispose()
	}

	c := p.New(m.deps, attrs)
	c.SetSize(m.layout.ContentWidth(), m.contentBodyHeight())

	m.active = &p
	m.current = c
	m.focus = FocusContent
	m.showHelp = false
	for i, e := range m.entries {
		if e.Section == p.Section && e.Name == p.Name {
			m.cursor = i
		}
	}

	m.deps.Logger.WithField("entry", p.Section+"/"+p.Name).Debug("mounted entry")
	return m, c.Init()
}

func (m Model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.current == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.current != nil {
		m.current.Dispose()
	}
	return m, tea.Quit
}

// contentBodyHeight is the content height minus the subtitle lines.
func (m Model) contentBodyHeight() int {
	h := m.layout.ContentHeight() - 2
	if h < 0 {
		return 0
	}
	return h
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.badge)
	body := m.layout.RenderBody(m.renderSidebar(), m.renderContent())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, body, statusBar)
}

func (m Model) headerTitle() string {
	if m.active == nil {
		return "Admin Console"
	}
	return "Admin Console › " + m.active.Section + " › " + m.active.Name
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	i := 0
	for _, s := range m.registry.Sections() {
		b.WriteString(theme.SectionStyle.Render(s.Name))
		b.WriteString("\n")
		for _, e := range s.Entries {
			switch {
			case i == m.cursor && m.focus == FocusSidebar:
				b.WriteString(theme.SelectedItemStyle.Render(e.Name))
			case m.active != nil && e.Section == m.active.Section && e.Name == m.active.Name:
				b.WriteString(theme.FocusedLabelStyle.PaddingLeft(2).Render(e.Name))
			default:
				b.WriteString(theme.ListItemStyle.Render(e.Name))
			}
			b.WriteString("\n")
			i++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderContent() string {
	if m.showHelp {
		label := ""
		if m.active != nil {
			label = m.active.Section + " / " + m.active.Name
		}
		return m.helpView.View(label)
	}
	if m.current == nil {
		return theme.HelpStyle.PaddingLeft(2).Render("Select an entry with enter.")
	}
	return theme.TitleStyle.PaddingLeft(2).Render(m.active.Subtitle) + "\n" + m.current.View()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch {
	case m.showHelp:
		return "? close help | esc back"
	case m.focus == FocusContent && m.current != nil:
		return "esc menu | tab next field | ctrl+s submit | ctrl+c quit"
	default:
		return "j/k move | enter open | tab content | ? help | q quit"
	}
}
