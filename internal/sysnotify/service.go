// Package sysnotify implements the admin operations that create, list and
// delete system notifications.
package sysnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/format"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/store"
)

// Operation names served under the admin category.
const (
	OpCreate = "systemNotificationCreate"
	OpList   = "systemNotificationList"
	OpDelete = "systemNotificationDelete"
)

// ErrInvalidDraft is returned when a draft is missing required fields or
// carries unparseable dates.
var ErrInvalidDraft = errors.New("invalid notification draft")

// DeleteRequest is the payload of the delete operation.
type DeleteRequest struct {
	NotificationID string `json:"notificationId"`
}

// ListRequest is the optional payload of the list operation.
type ListRequest struct {
	ActiveOnly bool `json:"activeOnly,omitempty"`
	Limit      int  `json:"limit,omitempty"`
}

// Service applies admin operations to a notification store.
type Service struct {
	store  store.NotificationStore
	logger logrus.FieldLogger
	now    func() time.Time
}

// New creates a Service backed by s.
func New(s store.NotificationStore, logger logrus.FieldLogger) *Service {
	return &Service{
		store:  s,
		logger: logger.WithField("component", "sysnotify"),
		now:    time.Now,
	}
}

// Register exposes the service operations on d under the admin category.
func (s *Service) Register(d *datarequest.Dispatcher) {
	d.Handle(datarequest.CategoryAdmin, OpCreate, s.handleCreate)
	d.Handle(datarequest.CategoryAdmin, OpList, s.handleList)
	d.Handle(datarequest.CategoryAdmin, OpDelete, s.handleDelete)
}

// Save creates a notification from d, or updates the record named by
// d.NotificationID.
func (s *Service) Save(ctx context.Context, d model.Draft) (model.Notification, error) {
	n, err := notificationFromDraft(d)
	if err != nil {
		return model.Notification{}, err
	}

	if d.IsUpdate() {
		n.ID = d.NotificationID
		updated, err := s.store.UpdateSystemNotification(ctx, n)
		if err != nil {
			return model.Notification{}, err
		}
		s.logger.WithField("notification_id", updated.ID).Info("system notification updated")
		return updated, nil
	}

	created, err := s.store.CreateSystemNotification(ctx, n)
	if err != nil {
		return model.Notification{}, err
	}
	s.logger.WithField("notification_id", created.ID).Info("system notification created")
	return created, nil
}

// List returns stored notifications, newest start date first.
func (s *Service) List(ctx context.Context, req ListRequest) ([]model.Notification, error) {
	filter := store.NotificationFilter{Limit: req.Limit}
	if req.ActiveOnly {
		now := s.now()
		filter.ActiveAt = &now
	}
	list, err := s.store.GetSystemNotifications(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

// Delete removes the notification with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notificationId is required", ErrInvalidDraft)
	}
	if err := s.store.DeleteSystemNotification(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("notification_id", id).Info("system notification deleted")
	return nil
}

func (s *Service) handleCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var d model.Draft
	if err := decode(payload, &d); err != nil {
		return nil, err
	}
	return s.Save(ctx, d)
}

func (s *Service) handleList(ctx context.Context, payload json.RawMessage) (any, error) {
	var req ListRequest
	if len(payload) > 0 && string(payload) != "null" {
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
	}
	return s.List(ctx, req)
}

func (s *Service) handleDelete(ctx context.Context, payload json.RawMessage) (any, error) {
	var req DeleteRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, s.Delete(ctx, req.NotificationID)
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidDraft)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// notificationFromDraft checks presence of the required fields and parses
// the display-format dates.
func notificationFromDraft(d model.Draft) (model.Notification, error) {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Message) == "" {
		missing = append(missing, "message")
	}
	if strings.TrimSpace(string(d.Severity)) == "" {
		missing = append(missing, "severity")
	}
	if strings.TrimSpace(d.StartDate) == "" {
		missing = append(missing, "startDate")
	}
	if len(missing) > 0 {
		return model.Notification{}, fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	if !d.Severity.Valid() {
		return model.Notification{}, fmt.Errorf("%w: unknown severity %q", ErrInvalidDraft, d.Severity)
	}

	start, err := format.ParseDateTime(d.StartDate)
	if err != nil {
		return model.Notification{}, fmt.Errorf("%w: startDate: %v", ErrInvalidDraft, err)
	}

	n := model.Notification{
		Title:     strings.TrimSpace(d.Title),
		Message:   strings.TrimSpace(d.Message),
		Severity:  d.Severity,
		StartDate: start,
	}

	if strings.TrimSpace(d.EndDate) != "" {
		end, err := format.ParseDateTime(d.EndDate)
		if err != nil {
			return model.Notification{}, fmt.Errorf("%w: endDate: %v", ErrInvalidDraft, err)
		}
		n.EndDate = &end
	}

	return n, nil
}
