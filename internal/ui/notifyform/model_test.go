package notifyform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/format"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/plugin"
	"github.com/nhle/admin-console/internal/sysnotify"
)

type call struct {
	category  string
	operation string
	payload   any
}

type fakeRequester struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeRequester) Request(_ context.Context, category, operation string, payload, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{category: category, operation: operation, payload: payload})
	return f.err
}

func (f *fakeRequester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newForm(t *testing.T, req datarequest.Requester, record *model.Notification) (*Model, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	m := New(plugin.Deps{
		Requester:     req,
		Logger:        logger,
		FlashDuration: time.Millisecond,
	}, plugin.Attrs{Notification: record})
	m.Init()
	return m, hook
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func fillRequired(m *Model) {
	typeText(m, "Maintenance")
	press(m, tea.KeyTab)
	typeText(m, "Down for an hour")
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	typeText(m, "2026-11-01 09:00")
}

func TestFreshFormDefaults(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)

	assert.Equal(t, ButtonCreate, m.ButtonText())
	assert.True(t, m.ButtonDisabled())
	assert.False(t, m.Editing())
	assert.Equal(t, model.Draft{Severity: model.SeverityInformational}, m.Draft())
}

func TestEditFormPrefills(t *testing.T) {
	start := time.Date(2026, 11, 1, 9, 0, 0, 0, time.Local)
	end := start.Add(2 * time.Hour)
	rec := &model.Notification{
		ID:        "n-1",
		Title:     "Outage",
		Message:   "Database upgrade",
		Severity:  model.SeverityCritical,
		StartDate: start,
		EndDate:   &end,
	}

	m, _ := newForm(t, &fakeRequester{}, rec)

	assert.Equal(t, ButtonUpdate, m.ButtonText())
	assert.False(t, m.ButtonDisabled())
	assert.Equal(t, model.Draft{
		Title:          "Outage",
		Message:        "Database upgrade",
		Severity:       model.SeverityCritical,
		StartDate:      format.DateTimeString(start),
		EndDate:        format.DateTimeString(end),
		NotificationID: "n-1",
	}, m.Draft())
}

func TestEditFormUnknownSeverityFallsBackToFirst(t *testing.T) {
	rec := &model.Notification{ID: "n-1", Title: "t", Message: "m", Severity: "LEGACY", StartDate: time.Now()}
	m, _ := newForm(t, &fakeRequester{}, rec)

	assert.Equal(t, model.SeverityInformational, m.Draft().Severity)
}

func TestTypingTogglesButton(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)

	typeText(m, "Maintenance")
	assert.True(t, m.ButtonDisabled())

	press(m, tea.KeyTab)
	typeText(m, "Down for an hour")
	assert.True(t, m.ButtonDisabled())

	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	typeText(m, "2026-11-01 09:00")
	assert.False(t, m.ButtonDisabled())

	// Deleting the whole start date disables it again.
	for i := 0; i < len("2026-11-01 09:00"); i++ {
		press(m, tea.KeyBackspace)
	}
	assert.True(t, m.ButtonDisabled())
}

func TestWhitespaceOnlyIsMissing(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)

	m.title.SetValue("   ")
	m.message.SetValue("body")
	m.start.SetValue("2026-11-01")
	m.CheckValid()

	assert.True(t, m.ButtonDisabled())
}

func TestEndDateIsOptional(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)
	fillRequired(m)

	assert.False(t, m.ButtonDisabled())
	assert.Empty(t, m.Draft().EndDate)
}

func TestSeveritySelection(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)

	press(m, tea.KeyRight)
	assert.Equal(t, model.SeverityWarning, m.Draft().Severity)

	press(m, tea.KeyRight)
	press(m, tea.KeyRight)
	assert.Equal(t, model.SeverityInformational, m.Draft().Severity)

	press(m, tea.KeyLeft)
	assert.Equal(t, model.SeverityCritical, m.Draft().Severity)
}

func TestFocusCycles(t *testing.T) {
	m, _ := newForm(t, &fakeRequester{}, nil)

	press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldButton, m.focus)

	press(m, tea.KeyTab)
	assert.Equal(t, fieldTitle, m.focus)
}

func TestSubmitDisabledDoesNothing(t *testing.T) {
	req := &fakeRequester{}
	m, _ := newForm(t, req, nil)

	assert.Nil(t, m.Submit())
	assert.Nil(t, press(m, tea.KeyCtrlS))
	assert.Zero(t, req.count())
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	req := &fakeRequester{}
	m, _ := newForm(t, req, nil)
	fillRequired(m)
	want := m.Draft()

	cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, m.InFlight())
	assert.True(t, m.ButtonDisabled())

	_, flashCmd := m.Update(cmd())

	require.Equal(t, 1, req.count())
	assert.Equal(t, call{
		category:  datarequest.CategoryAdmin,
		operation: sysnotify.OpCreate,
		payload:   want,
	}, req.calls[0])

	assert.False(t, m.InFlight())
	assert.Equal(t, model.Draft{Severity: model.SeverityInformational}, m.Draft())
	assert.True(t, m.ButtonDisabled())
	assert.Equal(t, ButtonCreate, m.ButtonText())
	assert.Equal(t, SavedText, m.Flash())
	assert.Contains(t, m.View(), SavedText)

	require.NotNil(t, flashCmd)
	m.Update(flashCmd())
	assert.Empty(t, m.Flash())
}

func TestSubmitFromButton(t *testing.T) {
	req := &fakeRequester{}
	m, _ := newForm(t, req, nil)
	fillRequired(m)
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	require.Equal(t, fieldButton, m.focus)

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, req.count())
}

func TestUpdateSuccessDropsRecord(t *testing.T) {
	req := &fakeRequester{}
	rec := &model.Notification{ID: "n-1", Title: "t", Message: "m", Severity: model.SeverityWarning, StartDate: time.Now()}
	m, _ := newForm(t, req, rec)

	cmd := m.Submit()
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Equal(t, 1, req.count())
	assert.Equal(t, "n-1", req.calls[0].payload.(model.Draft).NotificationID)
	assert.False(t, m.Editing())
	assert.Equal(t, ButtonCreate, m.ButtonText())
	assert.Empty(t, m.Draft().NotificationID)
	assert.Equal(t, model.SeverityInformational, m.Draft().Severity)
}

func TestSubmitFailureKeepsFields(t *testing.T) {
	req := &fakeRequester{err: fmt.Errorf("%w: status 500: disk full", datarequest.ErrRequestFailed)}
	m, hook := newForm(t, req, nil)
	fillRequired(m)
	before := m.Draft()

	cmd := m.Submit()
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, before, m.Draft())
	assert.False(t, m.ButtonDisabled())
	assert.Equal(t, ErrorText, m.Flash())
	assert.NotContains(t, m.View(), "disk full")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.True(t, errors.Is(hook.LastEntry().Data[logrus.ErrorKey].(error), datarequest.ErrRequestFailed))
}

func TestSecondSubmitWhileInFlightIsRefused(t *testing.T) {
	req := &fakeRequester{}
	m, _ := newForm(t, req, nil)
	fillRequired(m)

	first := m.Submit()
	require.NotNil(t, first)
	assert.Nil(t, m.Submit())
	assert.Nil(t, press(m, tea.KeyCtrlS))

	m.Update(first())
	assert.Equal(t, 1, req.count())
}

func TestResultAfterDisposeIsIgnored(t *testing.T) {
	req := &fakeRequester{}
	m, _ := newForm(t, req, nil)
	fillRequired(m)
	before := m.Draft()

	cmd := m.Submit()
	require.NotNil(t, cmd)
	m.Dispose()

	_, next := m.Update(cmd())
	assert.Nil(t, next)
	assert.Equal(t, before, m.Draft())
	assert.Empty(t, m.Flash())
}

func TestResultForOtherInstanceIsIgnored(t *testing.T) {
	req := &fakeRequester{}
	a, _ := newForm(t, req, nil)
	b, _ := newForm(t, req, nil)
	fillRequired(a)
	fillRequired(b)
	before := b.Draft()

	cmd := a.Submit()
	require.NotNil(t, cmd)
	b.Update(cmd())

	assert.Equal(t, before, b.Draft())
	assert.Empty(t, b.Flash())
}

func TestNewFlashOutlivesOlderExpiry(t *testing.T) {
	req := &fakeRequester{err: errors.New("boom")}
	m, _ := newForm(t, req, nil)
	fillRequired(m)

	cmd := m.Submit()
	_, firstExpiry := m.Update(cmd())

	req.err = nil
	cmd = m.Submit()
	m.Update(cmd())
	assert.Equal(t, SavedText, m.Flash())

	m.Update(firstExpiry())
	assert.Equal(t, SavedText, m.Flash())
}

func TestRegister(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, Register(r))

	p, ok := r.Lookup("System Notifications", "Create")
	require.True(t, ok)
	assert.Equal(t, "Create a New Notification", p.Subtitle)

	c := p.New(plugin.Deps{Requester: &fakeRequester{}}, plugin.Attrs{})
	_, isForm := c.(*Model)
	assert.True(t, isForm)
}
