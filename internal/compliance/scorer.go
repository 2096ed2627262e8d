// Package compliance scores access records against their matched shift.
package compliance

import (
	"fmt"
	"strconv"
	"strings"

	"gate-access-backend/internal/model"
)

const minutesPerDay = 24 * 60

// Verdict classifies a crossing against working hours.
type Verdict string

const (
	VerdictOnTime            Verdict = "ontime"
	VerdictLate              Verdict = "late"
	VerdictEarly             Verdict = "early"
	VerdictOutsideHours      Verdict = "outside_hours"
	VerdictExceptionApproved Verdict = "exception_approved"
)

// Result is the compliance outcome for one record.
type Result struct {
	Verdict          Verdict `json:"verdict"`
	ViolationMinutes int     `json:"violationMinutes"`
	Reason           string  `json:"reason"`
	ShiftID          *int64  `json:"shiftId,omitempty"`
	ShiftName        string  `json:"shiftName,omitempty"`
}

// IsViolation reports whether the result counts against the vehicle.
func (r Result) IsViolation() bool {
	return r.Verdict == VerdictLate || r.Verdict == VerdictEarly
}

// Score evaluates a record against its matched shift. A consumed exception
// request forces the verdict regardless of the time arithmetic; a nil shift
// means no working period governs that moment, which is not a violation.
func Score(rec *model.AccessRecord, sh *model.Shift) Result {
	if rec.HasException() {
		return Result{
			Verdict: VerdictExceptionApproved,
			Reason:  fmt.Sprintf("covered by approved exception request of %s", rec.ExceptionRequester),
		}
	}
	if sh == nil {
		return Result{
			Verdict: VerdictOutsideHours,
			Reason:  "no active shift covers this time",
		}
	}

	res := Result{Verdict: VerdictOnTime, ShiftID: &sh.ID, ShiftName: sh.Name}
	start, err1 := parseHHMM(sh.StartTime)
	end, err2 := parseHHMM(sh.EndTime)
	if err1 != nil || err2 != nil {
		res.Reason = fmt.Sprintf("shift %q has malformed times", sh.Name)
		return res
	}

	m := rec.EventAt.Hour()*60 + rec.EventAt.Minute()
	length := (end - start + minutesPerDay) % minutesPerDay

	switch rec.Action {
	case model.ActionEntry:
		elapsed := (m - start + minutesPerDay) % minutesPerDay
		if elapsed <= length && elapsed > sh.LateToleranceMinutes {
			res.Verdict = VerdictLate
			res.ViolationMinutes = elapsed - sh.LateToleranceMinutes
			res.Reason = fmt.Sprintf("entered %d min past the %d min tolerance of shift %q",
				res.ViolationMinutes, sh.LateToleranceMinutes, sh.Name)
		} else {
			res.Reason = fmt.Sprintf("entry within tolerance of shift %q", sh.Name)
		}
	case model.ActionExit:
		remaining := (end - m + minutesPerDay) % minutesPerDay
		if remaining <= length && remaining > sh.EarlyToleranceMinutes {
			res.Verdict = VerdictEarly
			res.ViolationMinutes = remaining - sh.EarlyToleranceMinutes
			res.Reason = fmt.Sprintf("left %d min before the %d min tolerance of shift %q",
				res.ViolationMinutes, sh.EarlyToleranceMinutes, sh.Name)
		} else {
			res.Reason = fmt.Sprintf("exit within tolerance of shift %q", sh.Name)
		}
	}
	return res
}

func parseHHMM(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour in %q", s)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("malformed minute in %q", s)
	}
	return h*60 + min, nil
}
