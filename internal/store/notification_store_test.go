package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/store"
	"github.com/nhle/admin-console/tests/testutil"
)

func sampleNotification(start time.Time) model.Notification {
	return model.Notification{
		Title:     "Maintenance",
		Message:   "Down 5pm",
		Severity:  model.SeverityWarning,
		StartDate: start,
	}
}

func TestCreateAndGetSystemNotification(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 14, 17, 0, 0, 0, time.UTC)

	created, err := s.CreateSystemNotification(ctx, sampleNotification(start))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetSystemNotificationByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", got.Title)
	assert.Equal(t, "Down 5pm", got.Message)
	assert.Equal(t, model.SeverityWarning, got.Severity)
	assert.True(t, start.Equal(got.StartDate))
	assert.Nil(t, got.EndDate)
}

func TestCreateSystemNotificationKeepsEndDate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 14, 17, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	n := sampleNotification(start)
	n.EndDate = &end
	created, err := s.CreateSystemNotification(ctx, n)
	require.NoError(t, err)

	got, err := s.GetSystemNotificationByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.True(t, end.Equal(*got.EndDate))
}

func TestCreateSystemNotificationRejectsInvalid(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n := sampleNotification(time.Now())
	n.Severity = "LOUD"
	_, err := s.CreateSystemNotification(ctx, n)
	assert.Error(t, err)

	n = sampleNotification(time.Time{})
	_, err = s.CreateSystemNotification(ctx, n)
	assert.Error(t, err)
}

func TestUpdateSystemNotification(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 14, 17, 0, 0, 0, time.UTC)

	created, err := s.CreateSystemNotification(ctx, sampleNotification(start))
	require.NoError(t, err)

	created.Title = "Extended maintenance"
	created.Severity = model.SeverityCritical
	updated, err := s.UpdateSystemNotification(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Extended maintenance", updated.Title)
	assert.Equal(t, model.SeverityCritical, updated.Severity)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateSystemNotificationNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	n := sampleNotification(time.Now())
	n.ID = "missing"

	_, err := s.UpdateSystemNotification(context.Background(), n)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetSystemNotificationsOrderAndFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	past := sampleNotification(base.Add(-48 * time.Hour))
	pastEnd := base.Add(-24 * time.Hour)
	past.EndDate = &pastEnd
	past.Title = "past"

	current := sampleNotification(base.Add(-time.Hour))
	current.Title = "current"
	current.Severity = model.SeverityCritical

	future := sampleNotification(base.Add(24 * time.Hour))
	future.Title = "future"

	for _, n := range []model.Notification{past, current, future} {
		_, err := s.CreateSystemNotification(ctx, n)
		require.NoError(t, err)
	}

	all, err := s.GetSystemNotifications(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "future", all[0].Title)
	assert.Equal(t, "current", all[1].Title)
	assert.Equal(t, "past", all[2].Title)

	active, err := s.GetSystemNotifications(ctx, store.NotificationFilter{ActiveAt: &base})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "current", active[0].Title)

	critical := model.SeverityCritical
	bySeverity, err := s.GetSystemNotifications(ctx, store.NotificationFilter{Severity: &critical})
	require.NoError(t, err)
	require.Len(t, bySeverity, 1)

	limited, err := s.GetSystemNotifications(ctx, store.NotificationFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "current", limited[0].Title)
}

func TestDeleteSystemNotification(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateSystemNotification(ctx, sampleNotification(time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSystemNotification(ctx, created.ID))

	_, err = s.GetSystemNotificationByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteSystemNotification(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
