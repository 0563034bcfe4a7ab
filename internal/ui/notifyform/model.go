// Package notifyform is the create/edit form for system notifications.
//
// The form collects a title, a message, a severity, a start date and an
// optional end date. Its primary button stays disabled until every
// required field has a value. Submitting sends the draft through the
// admin data request and, on success, resets the form for the next entry.
package notifyform

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/format"
	"github.com/nhle/admin-console/internal/keys"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/plugin"
	"github.com/nhle/admin-console/internal/sysnotify"
	"github.com/nhle/admin-console/internal/theme"
)

// Registration metadata.
const (
	Section  = "System Notifications"
	Name     = "Create"
	Subtitle = "Create a New Notification"
)

// User-facing texts.
const (
	ButtonCreate = "Create"
	ButtonUpdate = "Update"
	SavedText    = "Saved Notification"
	ErrorText    = "An error occurred"
)

// Register adds the form to r.
func Register(r *plugin.Registry) error {
	return r.Register(plugin.Plugin{
		Section:  Section,
		Name:     Name,
		Subtitle: Subtitle,
		New: func(deps plugin.Deps, attrs plugin.Attrs) plugin.Component {
			return New(deps, attrs)
		},
	})
}

type field int

const (
	fieldTitle field = iota
	fieldMessage
	fieldSeverity
	fieldStart
	fieldEnd
	fieldButton
	fieldCount
)

type flashKind int

const (
	flashNone flashKind = iota
	flashSuccess
	flashError
)

// submitResultMsg reports the outcome of one submission. owner and seq
// address it to the instance and submission that issued it.
type submitResultMsg struct {
	owner uint64
	seq   int
	err   error
}

type flashExpiredMsg struct {
	owner uint64
	seq   int
}

var instances atomic.Uint64

// Model is the form widget. It is used through a pointer so the host can
// hold it as a plugin.Component.
type Model struct {
	id     uint64
	deps   plugin.Deps
	keys   *keys.KeyMap
	record *model.Notification

	title    textinput.Model
	message  textarea.Model
	severity int
	start    textinput.Model
	end      textinput.Model
	focus    field

	invalid  bool
	inFlight bool
	seq      int
	cancel   context.CancelFunc

	flash    flashKind
	flashSeq int

	disposed bool
	width    int
	height   int
}

// New creates the form. attrs.Notification, when set, is the record being
// edited; its values are loaded by Init.
func New(deps plugin.Deps, attrs plugin.Attrs) *Model {
	if deps.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		deps.Logger = l
	}

	title := textinput.New()
	title.Placeholder = "Scheduled maintenance"
	title.Prompt = ""
	title.CharLimit = 200

	msg := textarea.New()
	msg.Placeholder = "What should users know?"
	msg.ShowLineNumbers = false
	msg.SetHeight(4)
	msg.CharLimit = 2000

	start := textinput.New()
	start.Placeholder = format.DateTimeLayoutHint
	start.Prompt = ""

	end := textinput.New()
	end.Placeholder = format.DateTimeLayoutHint + " (optional)"
	end.Prompt = ""

	m := &Model{
		id:      instances.Add(1),
		deps:    deps,
		keys:    keys.DefaultKeyMap(),
		record:  attrs.Notification,
		title:   title,
		message: msg,
		start:   start,
		end:     end,
		invalid: true,
	}
	m.SetSize(80, 24)
	return m
}

// Init fills the fields from the record, if any, focuses the title and
// runs validation once.
func (m *Model) Init() tea.Cmd {
	m.severity = 0
	if r := m.record; r != nil {
		m.title.SetValue(r.Title)
		m.message.SetValue(r.Message)
		if i := model.SeverityIndex(r.Severity); i >= 0 {
			m.severity = i
		}
		m.start.SetValue(format.DateTimeString(r.StartDate))
		if r.EndDate != nil {
			m.end.SetValue(format.DateTimeString(*r.EndDate))
		}
	}

	cmd := m.setFocus(fieldTitle)
	m.CheckValid()
	return tea.Batch(cmd, textinput.Blink)
}

// Update handles key input and submission results.
func (m *Model) Update(msg tea.Msg) (plugin.Component, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	switch msg := msg.(type) {
	case submitResultMsg:
		return m, m.handleResult(msg)

	case flashExpiredMsg:
		if msg.owner == m.id && msg.seq == m.flashSeq {
			m.flash = flashNone
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.Submit()
	case key.Matches(msg, m.keys.NextField):
		return m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	switch m.focus {
	case fieldButton:
		if key.Matches(msg, m.keys.Select) {
			return m.Submit()
		}
		return nil

	case fieldSeverity:
		n := len(model.Severities)
		switch {
		case key.Matches(msg, m.keys.OptionPrev, m.keys.Up):
			m.severity = (m.severity + n - 1) % n
		case key.Matches(msg, m.keys.OptionNext, m.keys.Down):
			m.severity = (m.severity + 1) % n
		}
		m.CheckValid()
		return nil
	}

	cmd := m.updateFocused(msg)
	m.CheckValid()
	return cmd
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldMessage:
		m.message, cmd = m.message.Update(msg)
	case fieldStart:
		m.start, cmd = m.start.Update(msg)
	case fieldEnd:
		m.end, cmd = m.end.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.title.Blur()
	m.message.Blur()
	m.start.Blur()
	m.end.Blur()

	m.focus = f
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldMessage:
		return m.message.Focus()
	case fieldStart:
		return m.start.Focus()
	case fieldEnd:
		return m.end.Focus()
	}
	return nil
}

// Draft reads the current field values.
func (m *Model) Draft() model.Draft {
	d := model.Draft{
		Title:     strings.TrimSpace(m.title.Value()),
		Message:   strings.TrimSpace(m.message.Value()),
		Severity:  model.Severities[m.severity],
		StartDate: strings.TrimSpace(m.start.Value()),
		EndDate:   strings.TrimSpace(m.end.Value()),
	}
	if m.record != nil {
		d.NotificationID = m.record.ID
	}
	return d
}

// CheckValid enables the button when every required field has a value
// and disables it otherwise.
func (m *Model) CheckValid() {
	m.invalid = !m.Draft().Submittable()
}

// ButtonDisabled reports whether the primary button is disabled, either
// because the draft is incomplete or because a submission is in flight.
func (m *Model) ButtonDisabled() bool {
	return m.invalid || m.inFlight
}

// ButtonText is "Update" while editing an existing record and "Create"
// otherwise.
func (m *Model) ButtonText() string {
	if m.record != nil {
		return ButtonUpdate
	}
	return ButtonCreate
}

// Editing reports whether the form targets an existing record.
func (m *Model) Editing() bool {
	return m.record != nil
}

// InFlight reports whether a submission is awaiting its result.
func (m *Model) InFlight() bool {
	return m.inFlight
}

// Flash returns the transient status text, if any.
func (m *Model) Flash() string {
	switch m.flash {
	case flashSuccess:
		return SavedText
	case flashError:
		return ErrorText
	}
	return ""
}

// Submit issues exactly one create request for the current draft. It
// returns nil when the button is disabled or a request is already in
// flight.
func (m *Model) Submit() tea.Cmd {
	if m.disposed || m.inFlight {
		return nil
	}
	m.CheckValid()
	if m.invalid {
		return nil
	}

	draft := m.Draft()
	m.inFlight = true
	m.seq++
	owner, seq := m.id, m.seq

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	req := m.deps.Requester

	return func() tea.Msg {
		defer cancel()
		err := req.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpCreate, draft, nil)
		return submitResultMsg{owner: owner, seq: seq, err: err}
	}
}

func (m *Model) handleResult(msg submitResultMsg) tea.Cmd {
	if msg.owner != m.id || msg.seq != m.seq {
		return nil
	}
	m.inFlight = false
	m.cancel = nil

	if msg.err != nil {
		m.deps.Logger.WithError(msg.err).
			WithField("notification_id", m.Draft().NotificationID).
			Warn("saving system notification failed")
		return m.showFlash(flashError)
	}

	m.reset()
	m.CheckValid()
	return m.showFlash(flashSuccess)
}

// reset clears every field and drops the edited record so the next
// submission creates a new notification.
func (m *Model) reset() {
	m.severity = 0
	m.title.Reset()
	m.message.Reset()
	m.start.Reset()
	m.end.Reset()
	m.record = nil
}

func (m *Model) showFlash(kind flashKind) tea.Cmd {
	m.flash = kind
	m.flashSeq++
	if m.deps.FlashDuration <= 0 {
		return nil
	}
	owner, seq := m.id, m.flashSeq
	return tea.Tick(m.deps.FlashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{owner: owner, seq: seq}
	})
}

// Dispose cancels any pending request. Results that arrive afterwards are
// dropped.
func (m *Model) Dispose() {
	m.disposed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	w := width - 6
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	m.title.Width = w
	m.message.SetWidth(w)
	m.start.Width = w
	m.end.Width = w
}

// View renders the form.
func (m *Model) View() string {
	var b strings.Builder

	if m.record != nil {
		b.WriteString(theme.HelpStyle.Render("Editing " + m.record.Title))
		b.WriteString("\n\n")
	}

	b.WriteString(m.label("Title", fieldTitle))
	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(m.label("Message", fieldMessage))
	b.WriteString(m.message.View() + "\n\n")
	b.WriteString(m.label("Severity", fieldSeverity))
	b.WriteString(m.severityView() + "\n\n")
	b.WriteString(m.label("Start Date", fieldStart))
	b.WriteString(m.start.View() + "\n\n")
	b.WriteString(m.label("End Date", fieldEnd))
	b.WriteString(m.end.View() + "\n\n")
	b.WriteString(m.buttonView())

	switch m.flash {
	case flashSuccess:
		b.WriteString("  " + theme.SuccessStyle.Render(SavedText))
	case flashError:
		b.WriteString("  " + theme.ErrorStyle.Render(ErrorText))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (m *Model) label(text string, f field) string {
	if m.focus == f {
		return theme.FocusedLabelStyle.Render("› "+text) + "\n"
	}
	return theme.LabelStyle.Render("  "+text) + "\n"
}

func (m *Model) severityView() string {
	opts := make([]string, len(model.Severities))
	for i, s := range model.Severities {
		mark := "( )"
		if i == m.severity {
			mark = "(•)"
		}
		opt := mark + " " + string(s)
		if i == m.severity {
			opt = theme.SeverityStyle(s).Render(opt)
		}
		opts[i] = opt
	}
	return strings.Join(opts, "   ")
}

func (m *Model) buttonView() string {
	text := m.ButtonText()
	switch {
	case m.ButtonDisabled():
		return theme.DisabledButtonStyle.Render(text)
	case m.focus == fieldButton:
		return theme.FocusedButtonStyle.Render(text)
	default:
		return theme.ButtonStyle.Render(text)
	}
}
