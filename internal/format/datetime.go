// Package format converts stored timestamps to and from the strings shown
// in admin form fields.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DateTimeLayout is the layout used for date-time form fields.
const DateTimeLayout = "2006-01-02 15:04"

// DateTimeLayoutHint describes DateTimeLayout to users.
const DateTimeLayoutHint = "YYYY-MM-DD HH:MM"

// acceptedLayouts are tried in order by ParseDateTime.
var acceptedLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateTimeString renders t in local time using DateTimeLayout.
// The zero time renders as an empty string.
func DateTimeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateTimeLayout)
}

// ParseDateTime parses a form field value. It accepts DateTimeLayout,
// its ISO "T" variant, a bare date, and RFC 3339. Values without a zone
// are interpreted in local time.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date-time")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q, use %s", s, DateTimeLayoutHint)
}

// Relative describes t relative to now, e.g. "3 hours ago" or
// "2 days from now".
func Relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
