package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/models"
)

// now is well before the test week so the temporal-sanity rule never
// interferes with the schedule scenarios.
var testNow = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func hourlyPolicy(maxHours int) Policy {
	return Policy{
		DurationType: models.DurationPerHour,
		MaxDuration:  maxHours,
		Schedule:     []models.ScheduleWindow{{Day: "Monday", Start: "09:00", End: "17:00"}},
	}
}

func at(dayOffset, hour int) time.Time {
	return weekStart.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour)
}

func TestValidateProposal_PerHourWithinWindow(t *testing.T) {
	// 3h <= 4h limit, fully inside Monday 09:00-17:00.
	err := ValidateProposal(hourlyPolicy(4), at(0, 10), at(0, 13), testNow)
	assert.Nil(t, err)
}

func TestValidateProposal_PerHourDurationExceeded(t *testing.T) {
	err := ValidateProposal(hourlyPolicy(4), at(0, 10), at(0, 15), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeDurationExceeded, err.Code)
}

func TestValidateProposal_PerHourStartOutsideWindow(t *testing.T) {
	err := ValidateProposal(hourlyPolicy(4), at(0, 8), at(0, 10), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeOutsideSchedule, err.Code)
}

func TestValidateProposal_PerHourEndAtWindowEdgeAllowed(t *testing.T) {
	err := ValidateProposal(hourlyPolicy(0), at(0, 13), at(0, 17), testNow)
	assert.Nil(t, err)
}

func TestValidateProposal_PerHourCrossDayRejected(t *testing.T) {
	err := ValidateProposal(hourlyPolicy(0), at(0, 16), at(1, 10), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeMultiDayNotAllowed, err.Code)
}

func TestValidateProposal_PerDayClosedDayInSpanRejected(t *testing.T) {
	// Windows on Monday and Wednesday only; Tuesday is closed, so a
	// Monday -> Wednesday span is invalid.
	p := Policy{
		DurationType: models.DurationPerDay,
		Schedule: []models.ScheduleWindow{
			{Day: "Monday", Start: "09:00", End: "17:00"},
			{Day: "Wednesday", Start: "09:00", End: "17:00"},
		},
	}
	err := ValidateProposal(p, at(0, 9), at(2, 17), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeScheduleGap, err.Code)
}

func TestValidateProposal_PerDaySpanAcrossOpenDays(t *testing.T) {
	p := Policy{
		DurationType: models.DurationPerDay,
		Schedule: []models.ScheduleWindow{
			{Day: "Monday", Start: "09:00", End: "17:00"},
			{Day: "Tuesday", Start: "09:00", End: "17:00"},
			{Day: "Wednesday", Start: "09:00", End: "17:00"},
		},
	}
	err := ValidateProposal(p, at(0, 9), at(2, 17), testNow)
	assert.Nil(t, err)
}

func TestValidateProposal_PerDayDurationLimit(t *testing.T) {
	p := Policy{
		DurationType: models.DurationPerDay,
		MaxDuration:  1,
		Schedule: []models.ScheduleWindow{
			{Day: "Monday", Start: "09:00", End: "17:00"},
			{Day: "Tuesday", Start: "09:00", End: "17:00"},
			{Day: "Wednesday", Start: "09:00", End: "17:00"},
		},
	}
	err := ValidateProposal(p, at(0, 9), at(2, 17), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeDurationExceeded, err.Code)
}

func TestValidateProposal_TemporalSanity(t *testing.T) {
	p := hourlyPolicy(0)

	err := ValidateProposal(p, testNow.Add(-time.Hour), testNow.Add(time.Hour), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeStartInPast, err.Code)

	err = ValidateProposal(p, at(0, 12), at(0, 12), testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeEndBeforeStart, err.Code)
}

func TestValidateProposal_StartGraceRoundsUp(t *testing.T) {
	// now 08:03 rounds up to 08:05, so a start at 08:04 is still "past".
	now := time.Date(2026, 1, 5, 8, 3, 0, 0, time.UTC)
	p := Policy{} // no duration type: span rule with empty schedule

	err := ValidateProposal(p, now.Add(time.Minute), now.Add(2*time.Hour), now)
	require.NotNil(t, err)
	assert.Equal(t, CodeStartInPast, err.Code)
}

func TestFindConflict_OverlapDetected(t *testing.T) {
	existing := []models.Booking{{
		ID:     "b1",
		Start:  at(0, 10),
		End:    at(0, 12),
		Status: models.BookingStatusConfirmed,
	}}

	// 11:00-13:00 overlaps 10:00-12:00 even though it passes schedule checks.
	hit := FindConflict(at(0, 11), at(0, 13), existing)
	require.NotNil(t, hit)
	assert.Equal(t, "b1", hit.ID)
}

func TestFindConflict_TouchingRangesDoNotConflict(t *testing.T) {
	existing := []models.Booking{{
		Start:  at(0, 10),
		End:    at(0, 12),
		Status: models.BookingStatusConfirmed,
	}}
	assert.Nil(t, FindConflict(at(0, 12), at(0, 14), existing))
}

func TestFindConflict_NonOccupyingStatusesIgnored(t *testing.T) {
	for _, status := range []string{
		models.BookingStatusCancelled,
		models.BookingStatusRejected,
		models.BookingStatusCompleted,
	} {
		existing := []models.Booking{{Start: at(0, 10), End: at(0, 12), Status: status}}
		assert.Nil(t, FindConflict(at(0, 11), at(0, 13), existing), "status %s", status)
	}
}
