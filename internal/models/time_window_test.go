package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeWindowNormalizesClock(t *testing.T) {
	w, err := NewTimeWindow("2026-03-02", "09:00", "10:30")
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", w.StartTime)
	assert.Equal(t, "10:30:00", w.EndTime)
}

func TestNewTimeWindowRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		start string
		end   string
	}{
		{"bad date", "02-03-2026", "09:00:00", "10:00:00"},
		{"bad start", "2026-03-02", "9am", "10:00:00"},
		{"bad end", "2026-03-02", "09:00:00", "ten"},
		{"reversed", "2026-03-02", "11:00:00", "10:00:00"},
		{"zero length", "2026-03-02", "10:00:00", "10:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTimeWindow(tc.date, tc.start, tc.end)
			assert.Error(t, err)
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := TimeWindow{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "11:00:00"}

	cases := []struct {
		name  string
		other TimeWindow
		want  bool
	}{
		{"identical", TimeWindow{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "11:00:00"}, true},
		{"nested", TimeWindow{Date: "2026-03-02", StartTime: "09:30:00", EndTime: "10:30:00"}, true},
		{"partial left", TimeWindow{Date: "2026-03-02", StartTime: "08:00:00", EndTime: "09:30:00"}, true},
		{"partial right", TimeWindow{Date: "2026-03-02", StartTime: "10:30:00", EndTime: "12:00:00"}, true},
		{"covering", TimeWindow{Date: "2026-03-02", StartTime: "08:00:00", EndTime: "12:00:00"}, true},
		{"touching before", TimeWindow{Date: "2026-03-02", StartTime: "07:00:00", EndTime: "09:00:00"}, false},
		{"touching after", TimeWindow{Date: "2026-03-02", StartTime: "11:00:00", EndTime: "13:00:00"}, false},
		{"disjoint", TimeWindow{Date: "2026-03-02", StartTime: "13:00:00", EndTime: "14:00:00"}, false},
		{"other date", TimeWindow{Date: "2026-03-03", StartTime: "09:00:00", EndTime: "11:00:00"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(base, tc.other))
			assert.Equal(t, tc.want, Overlaps(tc.other, base), "overlap must be symmetric")
		})
	}
}

func TestHours(t *testing.T) {
	w := TimeWindow{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "10:30:00"}
	assert.InDelta(t, 1.5, w.Hours(), 1e-9)

	full := TimeWindow{Date: "2026-03-02", StartTime: "00:00:00", EndTime: "23:59:00"}
	assert.InDelta(t, 23.983333, full.Hours(), 1e-4)
}
