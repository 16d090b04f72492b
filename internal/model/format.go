package model

import (
	"strings"
	"time"
)

// String formats the address on one line, skipping empty parts.
func (a Address) String() string {
	var parts []string
	for _, p := range []string{a.Street, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.Zip))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Upcoming reports whether the event has not finished by now.
// Events without an end time are upcoming until the end of their start day.
func (e Event) Upcoming(now time.Time) bool {
	if e.End != nil {
		return !e.End.Before(now)
	}
	y, m, d := e.Start.In(now.Location()).Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	return !endOfDay.Before(now)
}
