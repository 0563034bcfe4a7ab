package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/admin-console/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// NotificationFilter controls filtering and pagination for system
// notification queries.
type NotificationFilter struct {
	ActiveAt *time.Time      // only notifications displayed at this instant
	Severity *model.Severity // only this severity, or nil (all)
	Limit    int
	Offset   int
}

// NotificationStore defines the persistence interface for system
// notifications.
type NotificationStore interface {
	CreateSystemNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	UpdateSystemNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	GetSystemNotificationByID(ctx context.Context, id string) (*model.Notification, error)
	GetSystemNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	DeleteSystemNotification(ctx context.Context, id string) error
}
