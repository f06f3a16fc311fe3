// Package availability holds the pure calendar logic for listings: expanding
// a weekly working schedule and existing bookings into display segments, and
// validating proposed booking ranges against schedule and policy. Everything
// here is a free function over immutable inputs; persistence and transport
// live elsewhere.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gatherly/models"
)

// clockMinutes converts an "HH:MM" wall-clock string to minutes from
// midnight. Malformed values are reported so bad schedule rows surface at
// validation time instead of silently opening or closing a day.
func clockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return h*60 + m, nil
}

// windowsFor returns the schedule windows whose weekday matches day,
// converted to minutes from midnight. Windows that fail to parse or have
// start >= end are skipped.
func windowsFor(schedule []models.ScheduleWindow, day time.Weekday) []minuteWindow {
	var out []minuteWindow
	for _, w := range schedule {
		if !strings.EqualFold(w.Day, day.String()) {
			continue
		}
		start, err := clockMinutes(w.Start)
		if err != nil {
			continue
		}
		end, err := clockMinutes(w.End)
		if err != nil || end <= start {
			continue
		}
		out = append(out, minuteWindow{start: start, end: end})
	}
	return out
}

// minuteWindow is a working-schedule window in minutes from midnight.
type minuteWindow struct {
	start int
	end   int
}

// containsStart reports whether a clock time (minutes from midnight) is a
// valid booking start within the window: [start, end).
func (w minuteWindow) containsStart(min int) bool {
	return min >= w.start && min < w.end
}

// containsEnd reports whether a clock time is a valid booking end within the
// window: (start, end].
func (w minuteWindow) containsEnd(min int) bool {
	return min > w.start && min <= w.end
}

// dayStart truncates t to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// minutesIntoDay returns t's wall-clock offset in minutes from midnight.
func minutesIntoDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
