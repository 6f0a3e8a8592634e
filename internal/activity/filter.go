// Package activity turns GitLab push events into commit records and calendar ranges.
package activity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Window is a half-open interval of instants [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// DayWindow covers every instant of the days in r, including all of the end day.
func DayWindow(r domain.DateRange) Window {
	return Window{From: r.Start, To: r.End.AddDate(0, 0, 1)}
}

// Contains reports whether t lies in the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// ParseUserID parses a user id from its textual form.
func ParseUserID(s string) (int64, error) {
	id, ok := parseNumericID(s)
	if !ok {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

// FilterByAuthor keeps the events authored by userID.
// Author ids are compared numerically so "42" and 42 match alike.
func FilterByAuthor(events []domain.Event, userID int64) []domain.Event {
	filtered := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if id, ok := parseNumericID(event.AuthorID); ok && id == userID {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// FilterByWindow keeps the events created inside w.
// Events whose timestamp cannot be parsed are dropped.
func FilterByWindow(events []domain.Event, w Window) []domain.Event {
	filtered := make([]domain.Event, 0, len(events))
	for _, event := range events {
		createdAt, err := time.Parse(time.RFC3339Nano, event.CreatedAt)
		if err != nil {
			continue
		}
		if w.Contains(createdAt) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func parseNumericID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	// GitLab never sends fractional ids, but "42.0" still names user 42.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
