package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddressString(t *testing.T) {
	assert.Equal(t, "12 Main St, Springfield, IL 62701",
		Address{Street: "12 Main St", City: "Springfield", State: "IL", Zip: "62701"}.String())
	assert.Equal(t, "Springfield", Address{City: " Springfield "}.String())
	assert.Equal(t, "", Address{}.String())
}

func TestEventUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)
	earlier := now.Add(-2 * time.Hour)

	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{"future", Event{Start: now.AddDate(0, 0, 1)}, true},
		{"earlier today without end", Event{Start: earlier}, true},
		{"yesterday", Event{Start: now.AddDate(0, 0, -1)}, false},
		{"still running", Event{Start: now.AddDate(0, 0, -1), End: &later}, true},
		{"finished", Event{Start: now.AddDate(0, 0, -1), End: &earlier}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Upcoming(now))
		})
	}
}
