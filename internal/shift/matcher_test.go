package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate-access-backend/internal/model"
)

// 2026-08-31 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC)
}

func tuesday(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestMatch(t *testing.T) {
	dayShift := model.Shift{
		ID: 1, Name: "day",
		StartTime: "08:00", EndTime: "17:00",
		Weekdays:             "1,2,3,4,5",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}
	morning := model.Shift{
		ID: 2, Name: "morning",
		StartTime: "06:00", EndTime: "14:00",
		Weekdays:             "1,2,3,4,5",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}
	afternoon := model.Shift{
		ID: 3, Name: "afternoon",
		StartTime: "14:00", EndTime: "22:00",
		Weekdays:             "1,2,3,4,5",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}
	night := model.Shift{
		ID: 4, Name: "night",
		StartTime: "22:00", EndTime: "06:00",
		Weekdays:             "1,2,3,4,5",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}

	testCases := []struct {
		name     string
		shifts   []model.Shift
		at       time.Time
		action   model.Action
		expected int64 // 0 means no match
	}{
		{
			name:     "Entry within day shift",
			shifts:   []model.Shift{dayShift},
			at:       monday(9, 0),
			action:   model.ActionEntry,
			expected: 1,
		},
		{
			name:     "Entry within late tolerance window before start",
			shifts:   []model.Shift{dayShift},
			at:       monday(7, 50),
			action:   model.ActionEntry,
			expected: 1,
		},
		{
			name:     "Entry too early matches nothing",
			shifts:   []model.Shift{dayShift},
			at:       monday(7, 30),
			action:   model.ActionEntry,
			expected: 0,
		},
		{
			name:     "Overnight shift matches late evening entry",
			shifts:   []model.Shift{night},
			at:       monday(23, 30),
			action:   model.ActionEntry,
			expected: 4,
		},
		{
			name:     "Overnight shift does not match midday entry",
			shifts:   []model.Shift{night},
			at:       monday(12, 0),
			action:   model.ActionEntry,
			expected: 0,
		},
		{
			name:     "Overnight wrapped tail matches early morning exit next day",
			shifts:   []model.Shift{night},
			at:       tuesday(5, 0),
			action:   model.ActionExit,
			expected: 4,
		},
		{
			name:     "Nearest start wins between adjacent shifts",
			shifts:   []model.Shift{morning, afternoon},
			at:       monday(13, 50),
			action:   model.ActionEntry,
			expected: 3,
		},
		{
			name:     "Nearest end wins for exit",
			shifts:   []model.Shift{morning, afternoon},
			at:       monday(13, 30),
			action:   model.ActionExit,
			expected: 2,
		},
		{
			name:     "Weekday not configured",
			shifts:   []model.Shift{{ID: 5, Name: "monday-only", StartTime: "08:00", EndTime: "17:00", Weekdays: "1"}},
			at:       tuesday(9, 0),
			action:   model.ActionEntry,
			expected: 0,
		},
		{
			name: "Tie keeps first configured shift",
			shifts: []model.Shift{
				{ID: 6, Name: "a", StartTime: "08:00", EndTime: "17:00", Weekdays: "1", LateToleranceMinutes: 15},
				{ID: 7, Name: "b", StartTime: "08:00", EndTime: "17:00", Weekdays: "1", LateToleranceMinutes: 15},
			},
			at:       monday(8, 10),
			action:   model.ActionEntry,
			expected: 6,
		},
		{
			name:     "No shifts configured",
			shifts:   nil,
			at:       monday(8, 0),
			action:   model.ActionEntry,
			expected: 0,
		},
		{
			name:     "Malformed shift times are skipped",
			shifts:   []model.Shift{{ID: 8, Name: "broken", StartTime: "8am", EndTime: "17:00", Weekdays: "1"}},
			at:       monday(9, 0),
			action:   model.ActionEntry,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Match(tc.shifts, tc.at, tc.action)
			if tc.expected == 0 {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tc.expected, got.ID)
			}
		})
	}
}

func TestParseHHMM(t *testing.T) {
	m, err := parseHHMM("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	for _, bad := range []string{"", "8", "24:00", "08:60", "ab:cd"} {
		_, err := parseHHMM(bad)
		assert.Error(t, err, "expected %q to fail", bad)
	}
}

func TestWeekdayCSV(t *testing.T) {
	csv := WeekdayCSV([]time.Weekday{time.Monday, time.Friday})
	assert.Equal(t, "1,5", csv)
	assert.Equal(t, map[time.Weekday]bool{time.Monday: true, time.Friday: true}, weekdaySet(csv))
}
