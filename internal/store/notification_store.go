package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/admin-console/internal/model"
)

const notificationColumns = `id, title, message, severity, start_date, end_date, created_at, updated_at`

// CreateSystemNotification inserts a new notification. If the notification
// has no ID, a new UUID is generated. The stored record is returned.
func (s *SQLiteStore) CreateSystemNotification(
	ctx context.Context,
	n model.Notification,
) (model.Notification, error) {
	if err := checkNotification(n); err != nil {
		return model.Notification{}, err
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := storedTime(time.Now())
	n.CreatedAt = now
	n.UpdatedAt = now
	n.StartDate = storedTime(n.StartDate)
	n.EndDate = storedTimePtr(n.EndDate)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Message, string(n.Severity),
		n.StartDate, n.EndDate, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("creating system notification: %w", err)
	}

	return n, nil
}

// UpdateSystemNotification replaces the editable fields of an existing
// notification and returns the stored record.
func (s *SQLiteStore) UpdateSystemNotification(
	ctx context.Context,
	n model.Notification,
) (model.Notification, error) {
	if n.ID == "" {
		return model.Notification{}, fmt.Errorf("system notification id must not be empty")
	}
	if err := checkNotification(n); err != nil {
		return model.Notification{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE system_notifications
		SET title = ?, message = ?, severity = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`,
		n.Title, n.Message, string(n.Severity),
		storedTime(n.StartDate), storedTimePtr(n.EndDate), storedTime(time.Now()),
		n.ID,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("updating system notification %s: %w", n.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Notification{}, fmt.Errorf("system notification %s: %w", n.ID, ErrNotFound)
	}

	updated, err := s.GetSystemNotificationByID(ctx, n.ID)
	if err != nil {
		return model.Notification{}, err
	}
	return *updated, nil
}

// GetSystemNotificationByID retrieves a single notification by its ID.
func (s *SQLiteStore) GetSystemNotificationByID(
	ctx context.Context,
	id string,
) (*model.Notification, error) {
	var n model.Notification
	err := s.db.GetContext(ctx, &n,
		"SELECT "+notificationColumns+" FROM system_notifications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("system notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting system notification %s: %w", id, err)
	}
	return &n, nil
}

// GetSystemNotifications retrieves notifications matching the filter,
// newest start date first.
func (s *SQLiteStore) GetSystemNotifications(
	ctx context.Context,
	filter NotificationFilter,
) ([]model.Notification, error) {
	var conditions []string
	var args []interface{}

	if filter.ActiveAt != nil {
		at := storedTime(*filter.ActiveAt)
		conditions = append(conditions, "start_date <= ? AND (end_date IS NULL OR end_date > ?)")
		args = append(args, at, at)
	}
	if filter.Severity != nil {
		conditions = append(conditions, "severity = ?")
		args = append(args, string(*filter.Severity))
	}

	query := "SELECT " + notificationColumns + " FROM system_notifications"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	var notifications []model.Notification
	if err := s.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("querying system notifications: %w", err)
	}
	return notifications, nil
}

// DeleteSystemNotification removes a notification by ID.
func (s *SQLiteStore) DeleteSystemNotification(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM system_notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting system notification %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("system notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func checkNotification(n model.Notification) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("system notification title must not be empty")
	}
	if !n.Severity.Valid() {
		return fmt.Errorf("unknown severity %q", n.Severity)
	}
	if n.StartDate.IsZero() {
		return fmt.Errorf("system notification start date must be set")
	}
	return nil
}

// storedTime normalizes timestamps to UTC whole seconds so that stored
// values compare correctly as text.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func storedTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	st := storedTime(*t)
	return &st
}
