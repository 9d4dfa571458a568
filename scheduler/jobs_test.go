package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMarketOpenAt(t *testing.T) {
	at := func(year int, month time.Month, day, hour, min int) time.Time {
		return time.Date(year, month, day, hour, min, 0, 0, ist)
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"monday mid-session", at(2025, time.August, 25, 11, 0), true},
		{"opening bell", at(2025, time.August, 25, 9, 15), true},
		{"one minute before open", at(2025, time.August, 25, 9, 14), false},
		{"closing bell", at(2025, time.August, 25, 15, 30), true},
		{"one minute after close", at(2025, time.August, 25, 15, 31), false},
		{"friday afternoon", at(2025, time.August, 29, 14, 0), true},
		{"saturday", at(2025, time.August, 30, 11, 0), false},
		{"sunday", at(2025, time.August, 31, 11, 0), false},
		{"weekday pre-dawn", at(2025, time.August, 26, 4, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMarketOpenAt(tt.t))
		})
	}
}

func TestIsMarketOpenConvertsZone(t *testing.T) {
	// 05:45 UTC is 11:15 IST, well inside the session.
	utc := time.Date(2025, time.August, 25, 5, 45, 0, 0, time.UTC)
	assert.True(t, isMarketOpenAt(utc))

	// 11:00 UTC is 16:30 IST, after the close.
	utc = time.Date(2025, time.August, 25, 11, 0, 0, 0, time.UTC)
	assert.False(t, isMarketOpenAt(utc))
}
