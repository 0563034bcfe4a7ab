package model

import (
	"strings"
	"time"
)

// Severity is the urgency level of a system notification.
type Severity string

// Severity constants.
const (
	SeverityInformational Severity = "INFORMATIONAL"
	SeverityWarning       Severity = "WARNING"
	SeverityCritical      Severity = "CRITICAL"
)

// Severities lists every severity in display order. The first entry is
// the default selection for a fresh draft.
var Severities = []Severity{
	SeverityInformational,
	SeverityWarning,
	SeverityCritical,
}

// DefaultSeverity is the severity checked when nothing else is selected.
func DefaultSeverity() Severity {
	return Severities[0]
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// SeverityIndex returns the position of s in Severities, or -1.
func SeverityIndex(s Severity) int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return -1
}

// Notification is a stored banner-style message shown to end users
// during its display window.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Title is the short headline of the banner.
	Title string `json:"title" db:"title"`

	// Message is the banner body text.
	Message string `json:"message" db:"message"`

	// Severity controls how prominently the banner is rendered.
	Severity Severity `json:"severity" db:"severity"`

	// StartDate is when the banner starts being displayed.
	StartDate time.Time `json:"startDate" db:"start_date"`

	// EndDate is when the banner stops being displayed. Nil means
	// the banner has no scheduled end.
	EndDate *time.Time `json:"endDate,omitempty" db:"end_date"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ActiveAt reports whether the notification is inside its display
// window at t.
func (n Notification) ActiveAt(t time.Time) bool {
	if t.Before(n.StartDate) {
		return false
	}
	return n.EndDate == nil || t.Before(*n.EndDate)
}

// Draft is the not-yet-persisted form of a notification, as read from
// the admin form and sent to the data-access layer.
type Draft struct {
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate,omitempty"`

	// NotificationID is set only when the draft edits an existing record.
	NotificationID string `json:"notificationId,omitempty"`
}

// Submittable reports whether every required field carries a value.
func (d Draft) Submittable() bool {
	return strings.TrimSpace(d.Title) != "" &&
		strings.TrimSpace(d.Message) != "" &&
		strings.TrimSpace(string(d.Severity)) != "" &&
		strings.TrimSpace(d.StartDate) != ""
}

// IsUpdate reports whether the draft targets an existing record.
func (d Draft) IsUpdate() bool {
	return d.NotificationID != ""
}
