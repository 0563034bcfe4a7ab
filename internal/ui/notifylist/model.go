// Package notifylist shows existing system notifications and lets an
// admin open one in the form or delete it.
package notifylist

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/format"
	"github.com/nhle/admin-console/internal/keys"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/plugin"
	"github.com/nhle/admin-console/internal/sysnotify"
	"github.com/nhle/admin-console/internal/theme"
	"github.com/nhle/admin-console/internal/ui/notifyform"
)

// Registration metadata.
const (
	Name     = "List"
	Subtitle = "Manage Existing Notifications"
)

// Register adds the list entry to r under the form's section.
func Register(r *plugin.Registry) error {
	return r.Register(plugin.Plugin{
		Section:  notifyform.Section,
		Name:     Name,
		Subtitle: Subtitle,
		New: func(deps plugin.Deps, _ plugin.Attrs) plugin.Component {
			return New(deps)
		},
	})
}

type listMode int

const (
	modeList listMode = iota
	modeConfirmDelete
)

type loadedMsg struct {
	owner         uint64
	notifications []model.Notification
	err           error
}

type deletedMsg struct {
	owner uint64
	err   error
}

// confirmBinding stays on the heap so huh's Value pointer survives
// model copies.
type confirmBinding struct {
	confirm bool
}

var instances atomic.Uint64

// Model is the list entry.
type Model struct {
	id   uint64
	deps plugin.Deps
	keys *keys.KeyMap

	mode          listMode
	notifications []model.Notification
	selectedIdx   int
	loading       bool
	statusMsg     string

	confirmForm *huh.Form
	cb          *confirmBinding
	pendingID   string

	ctx      context.Context
	cancel   context.CancelFunc
	disposed bool
	width    int
	height   int
}

// New creates the list entry.
func New(deps plugin.Deps) *Model {
	if deps.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		deps.Logger = l
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		id:     instances.Add(1),
		deps:   deps,
		keys:   keys.DefaultKeyMap(),
		cb:     &confirmBinding{},
		ctx:    ctx,
		cancel: cancel,
		width:  80,
		height: 24,
	}
}

// Init loads the notifications.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Notifications returns the loaded records.
func (m *Model) Notifications() []model.Notification {
	return m.notifications
}

// Selected returns the highlighted record.
func (m *Model) Selected() (model.Notification, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.notifications) {
		return model.Notification{}, false
	}
	return m.notifications[m.selectedIdx], true
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (plugin.Component, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.deps.Logger.WithError(msg.err).Warn("loading system notifications failed")
			m.statusMsg = notifyform.ErrorText
			return m, nil
		}
		m.notifications = msg.notifications
		if m.selectedIdx >= len(m.notifications) {
			m.selectedIdx = max(len(m.notifications)-1, 0)
		}
		return m, nil

	case deletedMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.mode = modeList
		if msg.err != nil {
			m.deps.Logger.WithError(msg.err).Warn("deleting system notification failed")
			m.statusMsg = notifyform.ErrorText
			return m, nil
		}
		m.statusMsg = "Notification deleted"
		return m, m.load()

	case tea.KeyMsg:
		if m.mode == modeConfirmDelete {
			return m, m.updateConfirm(msg)
		}
		return m, m.handleListKey(msg)
	}

	if m.mode == modeConfirmDelete {
		return m, m.updateConfirm(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Down):
		if len(m.notifications) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.notifications)
		}

	case key.Matches(msg, m.keys.Up):
		if len(m.notifications) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.notifications) - 1
			}
		}

	case key.Matches(msg, m.keys.Select, m.keys.Edit):
		n, ok := m.Selected()
		if !ok {
			return nil
		}
		return plugin.Open(notifyform.Section, notifyform.Name, plugin.Attrs{Notification: &n})

	case key.Matches(msg, m.keys.Delete):
		n, ok := m.Selected()
		if !ok {
			return nil
		}
		m.pendingID = n.ID
		m.cb.confirm = false
		m.confirmForm = m.buildConfirmForm(n)
		m.mode = modeConfirmDelete
		return m.confirmForm.Init()

	case key.Matches(msg, m.keys.Refresh):
		m.statusMsg = ""
		return m.load()
	}
	return nil
}

func (m *Model) buildConfirmForm(n model.Notification) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete notification %q?", n.Title)).
				Description("Users will stop seeing this banner immediately.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.cb.confirm),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	if m.confirmForm == nil {
		m.mode = modeList
		return nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		return m.finishConfirm()
	case huh.StateAborted:
		m.mode = modeList
		m.pendingID = ""
		return nil
	}
	return cmd
}

// finishConfirm deletes the pending record when the admin agreed.
func (m *Model) finishConfirm() tea.Cmd {
	id := m.pendingID
	m.pendingID = ""
	if !m.cb.confirm || id == "" {
		m.mode = modeList
		return nil
	}
	return m.delete(id)
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	req, ctx, owner := m.deps.Requester, m.ctx, m.id
	return func() tea.Msg {
		var out []model.Notification
		err := req.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpList, sysnotify.ListRequest{}, &out)
		return loadedMsg{owner: owner, notifications: out, err: err}
	}
}

func (m *Model) delete(id string) tea.Cmd {
	req, ctx, owner := m.deps.Requester, m.ctx, m.id
	return func() tea.Msg {
		err := req.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpDelete, sysnotify.DeleteRequest{NotificationID: id}, nil)
		return deletedMsg{owner: owner, err: err}
	}
}

// Dispose cancels outstanding requests.
func (m *Model) Dispose() {
	m.disposed = true
	m.cancel()
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View renders the list or the delete confirmation.
func (m *Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(0, 2).Render(m.confirmForm.View())
	}

	var b strings.Builder

	switch {
	case m.loading && len(m.notifications) == 0:
		b.WriteString(theme.HelpStyle.Render("Loading..."))
	case len(m.notifications) == 0:
		b.WriteString(theme.HelpStyle.Render("No notifications yet. Use Create to add one."))
	default:
		for i, n := range m.notifications {
			line := fmt.Sprintf("%s  %s  %s",
				theme.SeverityStyle(n.Severity).Render(fmt.Sprintf("%-13s", n.Severity)),
				n.Title,
				theme.HelpStyle.Render(windowText(n)),
			)
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		style := theme.SuccessStyle
		if m.statusMsg == notifyform.ErrorText {
			style = theme.ErrorStyle
		}
		b.WriteString(style.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter/e edit | d delete | r refresh | esc back"))

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func windowText(n model.Notification) string {
	s := "starts " + format.Relative(n.StartDate)
	if n.EndDate != nil {
		s += ", ends " + format.Relative(*n.EndDate)
	}
	return s
}
