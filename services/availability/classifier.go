package availability

import (
	"time"

	"gatherly/models"
)

// SegmentKind classifies one calendar segment.
type SegmentKind string

const (
	SegmentBooked      SegmentKind = "booked"
	SegmentAvailable   SegmentKind = "available"
	SegmentUnavailable SegmentKind = "unavailable"
)

// Granularity selects the calendar view the segments are built for.
type Granularity int

const (
	// GranularityMonth renders whole-day segments (month and year views).
	GranularityMonth Granularity = iota
	// GranularityWeek renders sub-day segments per schedule window (week and
	// day views).
	GranularityWeek
)

// Segment is one renderable calendar block.
type Segment struct {
	Kind   SegmentKind `json:"kind"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	AllDay bool        `json:"allDay"`
}

// Classify expands bookings and the weekly working schedule over the visible
// range [rangeStart, rangeEnd) into display segments.
//
// Bookings contribute one booked segment per calendar day they touch, clipped
// to day boundaries; a day with any booked segment emits nothing else for
// that day. Remaining days are classified from the schedule: at month
// granularity one full-day segment (available when the weekday has at least
// one window, unavailable otherwise); at week granularity one sub-day
// available segment per window, or a full-day unavailable segment when the
// weekday has none.
//
// Only pending and confirmed bookings occupy days. The function is pure:
// identical inputs always yield identical output.
func Classify(rangeStart, rangeEnd time.Time, schedule []models.ScheduleWindow, bookings []models.Booking, gran Granularity) []Segment {
	if !rangeEnd.After(rangeStart) {
		return nil
	}

	var segments []Segment
	bookedDays := make(map[time.Time]bool)

	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		for _, seg := range expandBooking(b, rangeStart, rangeEnd) {
			bookedDays[dayStart(seg.Start)] = true
			segments = append(segments, seg)
		}
	}

	for d := dayStart(rangeStart); d.Before(rangeEnd); d = d.AddDate(0, 0, 1) {
		if bookedDays[d] {
			continue
		}
		windows := windowsFor(schedule, d.Weekday())
		if len(windows) == 0 {
			segments = append(segments, fullDaySegment(d, SegmentUnavailable))
			continue
		}
		if gran == GranularityMonth {
			segments = append(segments, fullDaySegment(d, SegmentAvailable))
			continue
		}
		for _, w := range windows {
			segments = append(segments, Segment{
				Kind:  SegmentAvailable,
				Start: d.Add(time.Duration(w.start) * time.Minute),
				End:   d.Add(time.Duration(w.end) * time.Minute),
			})
		}
	}

	return segments
}

// expandBooking splits a booking into one booked segment per calendar day it
// touches within [rangeStart, rangeEnd), clipped to day boundaries. The end
// is exclusive: a booking ending exactly at midnight does not touch the
// following day.
func expandBooking(b models.Booking, rangeStart, rangeEnd time.Time) []Segment {
	if !b.End.After(b.Start) {
		return nil
	}
	start, end := b.Start, b.End
	if start.Before(rangeStart) {
		start = rangeStart
	}
	if end.After(rangeEnd) {
		end = rangeEnd
	}
	if !end.After(start) {
		return nil
	}

	var segs []Segment
	for d := dayStart(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		next := d.AddDate(0, 0, 1)
		segStart, segEnd := d, next
		if start.After(segStart) {
			segStart = start
		}
		if end.Before(segEnd) {
			segEnd = end
		}
		segs = append(segs, Segment{Kind: SegmentBooked, Start: segStart, End: segEnd})
	}
	return segs
}

func fullDaySegment(day time.Time, kind SegmentKind) Segment {
	return Segment{
		Kind:   kind,
		Start:  day,
		End:    day.AddDate(0, 0, 1),
		AllDay: true,
	}
}
