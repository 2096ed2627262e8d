package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gate-access-backend/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC)
}

func TestScore(t *testing.T) {
	dayShift := &model.Shift{
		ID: 1, Name: "day",
		StartTime: "08:00", EndTime: "17:00",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}
	nightShift := &model.Shift{
		ID: 2, Name: "night",
		StartTime: "22:00", EndTime: "06:00",
		LateToleranceMinutes: 15, EarlyToleranceMinutes: 30,
	}

	testCases := []struct {
		name            string
		rec             model.AccessRecord
		shift           *model.Shift
		expectedVerdict Verdict
		expectedMinutes int
	}{
		{
			name:            "Entry past tolerance is late",
			rec:             model.AccessRecord{Action: model.ActionEntry, EventAt: at(8, 20)},
			shift:           dayShift,
			expectedVerdict: VerdictLate,
			expectedMinutes: 5,
		},
		{
			name:            "Entry within tolerance is on time",
			rec:             model.AccessRecord{Action: model.ActionEntry, EventAt: at(8, 10)},
			shift:           dayShift,
			expectedVerdict: VerdictOnTime,
		},
		{
			name:            "Entry before start is on time",
			rec:             model.AccessRecord{Action: model.ActionEntry, EventAt: at(7, 50)},
			shift:           dayShift,
			expectedVerdict: VerdictOnTime,
		},
		{
			name:            "Exit before tolerance is early",
			rec:             model.AccessRecord{Action: model.ActionExit, EventAt: at(16, 0)},
			shift:           dayShift,
			expectedVerdict: VerdictEarly,
			expectedMinutes: 30,
		},
		{
			name:            "Exit within tolerance is on time",
			rec:             model.AccessRecord{Action: model.ActionExit, EventAt: at(16, 45)},
			shift:           dayShift,
			expectedVerdict: VerdictOnTime,
		},
		{
			name:            "Exit after end is on time",
			rec:             model.AccessRecord{Action: model.ActionExit, EventAt: at(17, 30)},
			shift:           dayShift,
			expectedVerdict: VerdictOnTime,
		},
		{
			name:            "Late entry into overnight shift",
			rec:             model.AccessRecord{Action: model.ActionEntry, EventAt: at(22, 30)},
			shift:           nightShift,
			expectedVerdict: VerdictLate,
			expectedMinutes: 15,
		},
		{
			name:            "Early exit from overnight shift after midnight",
			rec:             model.AccessRecord{Action: model.ActionExit, EventAt: at(4, 30)},
			shift:           nightShift,
			expectedVerdict: VerdictEarly,
			expectedMinutes: 60,
		},
		{
			name:            "No shift means outside hours",
			rec:             model.AccessRecord{Action: model.ActionEntry, EventAt: at(3, 0)},
			shift:           nil,
			expectedVerdict: VerdictOutsideHours,
		},
		{
			name: "Consumed exception forces verdict",
			rec: model.AccessRecord{
				Action:             model.ActionEntry,
				EventAt:            at(10, 0),
				ExceptionRequestID: ptr(int64(7)),
				ExceptionRequester: "Nguyen Van A",
			},
			shift:           dayShift,
			expectedVerdict: VerdictExceptionApproved,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Score(&tc.rec, tc.shift)
			assert.Equal(t, tc.expectedVerdict, res.Verdict)
			assert.Equal(t, tc.expectedMinutes, res.ViolationMinutes)
			assert.NotEmpty(t, res.Reason)
			if tc.expectedVerdict == VerdictLate || tc.expectedVerdict == VerdictEarly {
				assert.True(t, res.IsViolation())
			} else {
				assert.False(t, res.IsViolation())
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
