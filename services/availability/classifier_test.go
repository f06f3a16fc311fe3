package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/models"
)

func mondayWindow(start, end string) models.ScheduleWindow {
	return models.ScheduleWindow{Day: "Monday", Start: start, End: end}
}

// Monday 2026-01-05 .. Sunday 2026-01-11 in UTC.
var weekStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func TestClassify_NoWindowDayIsUnavailable(t *testing.T) {
	schedule := []models.ScheduleWindow{mondayWindow("09:00", "17:00")}
	segs := Classify(weekStart, weekStart.AddDate(0, 0, 7), schedule, nil, GranularityMonth)

	require.Len(t, segs, 7)
	assert.Equal(t, SegmentAvailable, segs[0].Kind) // Monday
	for i := 1; i < 7; i++ {
		assert.Equal(t, SegmentUnavailable, segs[i].Kind, "day offset %d", i)
	}
}

func TestClassify_NoWindowDayUnavailableEvenWithBookingsElsewhere(t *testing.T) {
	// Tuesday has no window; a Monday booking must not change Tuesday.
	schedule := []models.ScheduleWindow{mondayWindow("09:00", "17:00")}
	bookings := []models.Booking{{
		Start:  weekStart.Add(10 * time.Hour),
		End:    weekStart.Add(12 * time.Hour),
		Status: models.BookingStatusConfirmed,
	}}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 2), schedule, bookings, GranularityMonth)

	var tuesday []Segment
	for _, s := range segs {
		if dayStart(s.Start).Equal(weekStart.AddDate(0, 0, 1)) {
			tuesday = append(tuesday, s)
		}
	}
	require.Len(t, tuesday, 1)
	assert.Equal(t, SegmentUnavailable, tuesday[0].Kind)
}

func TestClassify_BookedDaySuppressesAvailability(t *testing.T) {
	schedule := []models.ScheduleWindow{mondayWindow("09:00", "17:00")}
	bookings := []models.Booking{{
		Start:  weekStart.Add(10 * time.Hour),
		End:    weekStart.Add(12 * time.Hour),
		Status: models.BookingStatusPending,
	}}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 1), schedule, bookings, GranularityMonth)

	require.Len(t, segs, 1)
	assert.Equal(t, SegmentBooked, segs[0].Kind)
}

func TestClassify_MultiDayBookingOccupiesEveryDayTouched(t *testing.T) {
	// Friday 18:00 -> Sunday 10:00 touches Friday, Saturday, Sunday.
	start := weekStart.AddDate(0, 0, 4).Add(18 * time.Hour)
	end := weekStart.AddDate(0, 0, 6).Add(10 * time.Hour)
	bookings := []models.Booking{{Start: start, End: end, Status: models.BookingStatusConfirmed}}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 7), nil, bookings, GranularityMonth)

	var booked []Segment
	for _, s := range segs {
		if s.Kind == SegmentBooked {
			booked = append(booked, s)
		}
	}
	require.Len(t, booked, 3)
	assert.True(t, booked[0].Start.Equal(start))
	assert.True(t, booked[0].End.Equal(weekStart.AddDate(0, 0, 5)))
	assert.True(t, booked[1].Start.Equal(weekStart.AddDate(0, 0, 5)))
	assert.True(t, booked[2].End.Equal(end))
}

func TestClassify_MidnightEndDoesNotTouchNextDay(t *testing.T) {
	// Booking ends exactly at Tuesday midnight: Monday is booked, Tuesday is not.
	bookings := []models.Booking{{
		Start:  weekStart.Add(20 * time.Hour),
		End:    weekStart.AddDate(0, 0, 1),
		Status: models.BookingStatusConfirmed,
	}}
	schedule := []models.ScheduleWindow{{Day: "Tuesday", Start: "09:00", End: "17:00"}}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 2), schedule, bookings, GranularityMonth)

	require.Len(t, segs, 2)
	assert.Equal(t, SegmentBooked, segs[0].Kind)
	assert.Equal(t, SegmentAvailable, segs[1].Kind)
	assert.True(t, segs[1].Start.Equal(weekStart.AddDate(0, 0, 1)))
}

func TestClassify_WeekGranularityEmitsWindowSegments(t *testing.T) {
	// Split shift: two unmerged sub-day segments on Monday.
	schedule := []models.ScheduleWindow{
		mondayWindow("09:00", "12:00"),
		mondayWindow("13:00", "17:00"),
	}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 1), schedule, nil, GranularityWeek)

	require.Len(t, segs, 2)
	assert.True(t, segs[0].Start.Equal(weekStart.Add(9*time.Hour)))
	assert.True(t, segs[0].End.Equal(weekStart.Add(12*time.Hour)))
	assert.True(t, segs[1].Start.Equal(weekStart.Add(13*time.Hour)))
	assert.True(t, segs[1].End.Equal(weekStart.Add(17*time.Hour)))
	assert.False(t, segs[0].AllDay)
}

func TestClassify_OverlappingWindowsAreNotMerged(t *testing.T) {
	schedule := []models.ScheduleWindow{
		mondayWindow("09:00", "13:00"),
		mondayWindow("11:00", "17:00"),
	}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 1), schedule, nil, GranularityWeek)
	require.Len(t, segs, 2)
}

func TestClassify_CancelledBookingsDoNotOccupy(t *testing.T) {
	schedule := []models.ScheduleWindow{mondayWindow("09:00", "17:00")}
	bookings := []models.Booking{{
		Start:  weekStart.Add(10 * time.Hour),
		End:    weekStart.Add(12 * time.Hour),
		Status: models.BookingStatusCancelled,
	}}

	segs := Classify(weekStart, weekStart.AddDate(0, 0, 1), schedule, bookings, GranularityMonth)

	require.Len(t, segs, 1)
	assert.Equal(t, SegmentAvailable, segs[0].Kind)
}

func TestClassify_Idempotent(t *testing.T) {
	schedule := []models.ScheduleWindow{
		mondayWindow("09:00", "12:00"),
		{Day: "Wednesday", Start: "10:00", End: "16:00"},
	}
	bookings := []models.Booking{{
		Start:  weekStart.Add(9 * time.Hour),
		End:    weekStart.Add(11 * time.Hour),
		Status: models.BookingStatusConfirmed,
	}}

	first := Classify(weekStart, weekStart.AddDate(0, 0, 7), schedule, bookings, GranularityWeek)
	second := Classify(weekStart, weekStart.AddDate(0, 0, 7), schedule, bookings, GranularityWeek)
	assert.Equal(t, first, second)
}

func TestClassify_EmptyRange(t *testing.T) {
	assert.Nil(t, Classify(weekStart, weekStart, nil, nil, GranularityMonth))
}
