// Package shift matches access events to configured working-hours shifts.
//
// The matcher treats a shift as the *working* interval and picks the nearest
// candidate after extending the window by the shift's tolerances. A historical
// variant of this system instead treated the window as a restricted interval
// (violation when inside it); the compliance scorer only consumes the matched
// shift, so that policy could be substituted here without touching verdicts.
package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gate-access-backend/internal/model"
)

const minutesPerDay = 24 * 60

// Match finds the shift governing an event, or nil when no active shift covers
// that moment. Shifts are considered in list order; ties on distance keep the
// earlier shift.
//
// For entries the candidate window is [start-lateTolerance, end] and the
// nearest start wins; for exits it is [start, end+2*earlyTolerance] and the
// nearest end wins. A shift whose end is numerically before its start wraps
// past midnight, and its wrapped tail is also matched against events on the
// day after a configured weekday.
func Match(shifts []model.Shift, at time.Time, action model.Action) *model.Shift {
	m := at.Hour()*60 + at.Minute()
	day := at.Weekday()
	prevDay := (day + 6) % 7

	var best *model.Shift
	bestDist := minutesPerDay
	for i := range shifts {
		sh := &shifts[i]
		start, err1 := parseHHMM(sh.StartTime)
		end, err2 := parseHHMM(sh.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}

		var lo, hi, anchor int
		switch action {
		case model.ActionExit:
			lo = start
			hi = (end + 2*sh.EarlyToleranceMinutes) % minutesPerDay
			anchor = end
		default:
			lo = (start - sh.LateToleranceMinutes + minutesPerDay) % minutesPerDay
			hi = end
			anchor = start
		}

		days := weekdaySet(sh.Weekdays)
		inToday := days[day] && inWindow(lo, hi, m, true)
		inTail := days[prevDay] && inWindow(lo, hi, m, false)
		if !inToday && !inTail {
			continue
		}

		if d := wrapDistance(m, anchor); d < bestDist {
			best = sh
			bestDist = d
		}
	}
	return best
}

// inWindow reports whether minute m falls in the window from lo to hi, where
// lo > hi means the window wraps past midnight. anchorToday selects whether m
// is being tested against the pre-midnight part (the window's own weekday) or
// the wrapped tail (the following day).
func inWindow(lo, hi, m int, anchorToday bool) bool {
	if lo <= hi {
		return anchorToday && m >= lo && m <= hi
	}
	if anchorToday {
		return m >= lo
	}
	return m <= hi
}

// wrapDistance is the circular distance between two minutes-of-day.
func wrapDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > minutesPerDay/2 {
		d = minutesPerDay - d
	}
	return d
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

func weekdaySet(csv string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

// WeekdayCSV renders a weekday list in the storage format.
func WeekdayCSV(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}
