package availability

import (
	"fmt"
	"time"

	"gatherly/models"
)

// Validation error codes. Stable strings clients map to translated messages.
const (
	CodeStartInPast        = "booking_start_in_past"
	CodeEndBeforeStart     = "booking_end_before_start"
	CodeDurationExceeded   = "booking_duration_exceeded"
	CodeOutsideSchedule    = "booking_outside_working_hours"
	CodeScheduleGap        = "booking_spans_closed_day"
	CodeMultiDayNotAllowed = "booking_must_be_same_day"
	CodeSlotTaken          = "booking_slot_unavailable"
)

// ValidationError is a rule failure with a stable machine-readable code.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Policy is the slice of a listing the validator needs: its duration policy
// and working schedule, treated as immutable inputs.
type Policy struct {
	DurationType string // models.DurationPerHour, models.DurationPerDay, or ""
	MaxDuration  int    // hours or days depending on DurationType; zero = no limit
	Schedule     []models.ScheduleWindow
}

// PolicyFor extracts the validation policy from a listing.
func PolicyFor(l models.Listing) Policy {
	return Policy{
		DurationType: l.BookingDurationType,
		MaxDuration:  l.BookingDuration,
		Schedule:     l.WorkingSchedule,
	}
}

// startGrace rounds "now" up to the next 5-minute boundary so a start the
// user picked a moment ago is not rejected as past.
const startGrace = 5 * time.Minute

// ValidateProposal runs the three local rules (temporal sanity, maximum
// duration, working-schedule containment) against a proposed [start, end)
// range, short-circuiting on the first failure. The overlap check against
// existing bookings is separate (FindConflict); its authoritative form runs
// inside the booking write transaction.
func ValidateProposal(p Policy, start, end, now time.Time) *ValidationError {
	// Rule 1: temporal sanity.
	floor := now.Truncate(startGrace)
	if floor.Before(now) {
		floor = floor.Add(startGrace)
	}
	if start.Before(floor) {
		return newValidationError(CodeStartInPast, "booking start %s is in the past", start.Format(time.RFC3339))
	}
	if !end.After(start) {
		return newValidationError(CodeEndBeforeStart, "booking end must be after start")
	}

	// Rule 2: maximum-duration policy.
	if p.MaxDuration > 0 {
		switch p.DurationType {
		case models.DurationPerHour:
			if end.Sub(start) > time.Duration(p.MaxDuration)*time.Hour {
				return newValidationError(CodeDurationExceeded, "booking exceeds the %d hour limit", p.MaxDuration)
			}
		case models.DurationPerDay:
			if end.Sub(start) > time.Duration(p.MaxDuration)*24*time.Hour {
				return newValidationError(CodeDurationExceeded, "booking exceeds the %d day limit", p.MaxDuration)
			}
		}
	}

	// Rule 3: working-schedule containment.
	if p.DurationType == models.DurationPerHour {
		return validateSameDay(p.Schedule, start, end)
	}
	return validateSpan(p.Schedule, start, end)
}

// validateSameDay enforces the Per Hour containment rule: start and end on
// the same calendar day, both clock times inside some window of that weekday.
func validateSameDay(schedule []models.ScheduleWindow, start, end time.Time) *ValidationError {
	if !dayStart(start).Equal(dayStart(end)) {
		return newValidationError(CodeMultiDayNotAllowed, "hourly bookings must start and end on the same day")
	}
	windows := windowsFor(schedule, start.Weekday())
	if !clockWithinAny(windows, minutesIntoDay(start), true) {
		return newValidationError(CodeOutsideSchedule, "start time %02d:%02d is outside working hours", start.Hour(), start.Minute())
	}
	if !clockWithinAny(windows, minutesIntoDay(end), false) {
		return newValidationError(CodeOutsideSchedule, "end time %02d:%02d is outside working hours", end.Hour(), end.Minute())
	}
	return nil
}

// validateSpan enforces the Per Day (or unspecified) containment rule: each
// endpoint's clock time inside some window of its own weekday, and every
// whole day strictly between the endpoints open (at least one window).
func validateSpan(schedule []models.ScheduleWindow, start, end time.Time) *ValidationError {
	if !clockWithinAny(windowsFor(schedule, start.Weekday()), minutesIntoDay(start), true) {
		return newValidationError(CodeOutsideSchedule, "start time %02d:%02d is outside working hours", start.Hour(), start.Minute())
	}
	if !clockWithinAny(windowsFor(schedule, end.Weekday()), minutesIntoDay(end), false) {
		return newValidationError(CodeOutsideSchedule, "end time %02d:%02d is outside working hours", end.Hour(), end.Minute())
	}
	for d := dayStart(start).AddDate(0, 0, 1); d.Before(dayStart(end)); d = d.AddDate(0, 0, 1) {
		if len(windowsFor(schedule, d.Weekday())) == 0 {
			return newValidationError(CodeScheduleGap, "%s has no working hours", d.Weekday())
		}
	}
	return nil
}

func clockWithinAny(windows []minuteWindow, min int, asStart bool) bool {
	for _, w := range windows {
		if asStart && w.containsStart(min) {
			return true
		}
		if !asStart && w.containsEnd(min) {
			return true
		}
	}
	return false
}

// SlotTakenError wraps a conflicting booking into a ValidationError so quote
// responses carry the same code shape as the local rules.
func SlotTakenError(conflict *models.Booking) *ValidationError {
	return newValidationError(CodeSlotTaken, "the range %s to %s is already booked",
		conflict.Start.Format(time.RFC3339), conflict.End.Format(time.RFC3339))
}

// FindConflict returns the first occupying booking whose range overlaps the
// proposed [start, end), or nil. Half-open intervals: ranges that merely
// touch do not conflict. This is the advisory form of rule 4; the
// authoritative re-check happens inside the booking write transaction.
func FindConflict(start, end time.Time, existing []models.Booking) *models.Booking {
	for i := range existing {
		b := existing[i]
		if !b.Occupies() {
			continue
		}
		if start.Before(b.End) && b.Start.Before(end) {
			return &b
		}
	}
	return nil
}
