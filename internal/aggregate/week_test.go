package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay(t *testing.T) {
	ts := time.Date(2026, 8, 20, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), Day(ts))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    time.Time
		startDay time.Weekday
		want     time.Time
	}{
		{"mid-week maps back to monday", time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC), time.Monday, monday},
		{"monday maps to itself", monday, time.Monday, monday},
		{"sunday maps to prior monday", time.Date(2026, 8, 23, 1, 0, 0, 0, time.UTC), time.Monday, monday},
		{"sunday start", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), time.Sunday, time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.input, tt.startDay))
		})
	}
}
