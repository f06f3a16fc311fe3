// services/booking/service_test.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingRepo "gatherly/database/repository/booking"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Point the cache at a closed port; the service tolerates cache failures.
	utils.CacheClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
}

// fakeBookingRepo is an in-memory BookingRepository with the same half-open
// overlap semantics and one-winner reservation guarantee as the Mongo
// implementation.
type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   []models.Booking
	overlapErr error
}

func (f *fakeBookingRepo) CreateIfFree(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.bookings {
		if e.ListingID == b.ListingID && e.Occupies() && b.Start.Before(e.End) && e.Start.Before(b.End) {
			return bookingRepo.ErrSlotTaken
		}
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetOverlapping(listingID string, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ListingID == listingID && b.Occupies() && b.Start.Before(to) && from.Before(b.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByUserID(userID string, limit int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByProviderID(providerID string, limit int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetFutureByListing(listingID string, after time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ListingID == listingID && b.Start.After(after) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(id, status string) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (f *fakeBookingRepo) AttachInvoice(id string, inv *models.Invoice) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Invoice = inv
			return nil
		}
	}
	return errors.New("booking not found")
}

func (f *fakeBookingRepo) CompleteElapsed(now time.Time) (int64, error) {
	var n int64
	for i := range f.bookings {
		if f.bookings[i].Status == models.BookingStatusConfirmed && !f.bookings[i].End.After(now) {
			f.bookings[i].Status = models.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) GetStartingBetween(from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusConfirmed && !b.Start.Before(from) && b.Start.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeListingRepo serves a fixed set of listings.
type fakeListingRepo struct {
	listings map[string]models.Listing
}

func (f *fakeListingRepo) Create(l *models.Listing) error { f.listings[l.ID] = *l; return nil }
func (f *fakeListingRepo) GetByID(id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
func (f *fakeListingRepo) GetByProviderID(string) ([]models.Listing, error) { return nil, nil }
func (f *fakeListingRepo) Update(l *models.Listing) error                   { f.listings[l.ID] = *l; return nil }
func (f *fakeListingRepo) Delete(id string) error                           { delete(f.listings, id); return nil }
func (f *fakeListingRepo) Search(models.ListingFilter) ([]models.Listing, error) {
	return nil, nil
}
func (f *fakeListingRepo) UpdateSchedule(string, []models.ScheduleWindow, string, int) error {
	return nil
}
func (f *fakeListingRepo) UpdateReviewAggregates(string, float64, int) error { return nil }
func (f *fakeListingRepo) SetHotDeal(string, *models.HotDealRef) error       { return nil }

func fullWeekSchedule(start, end string) []models.ScheduleWindow {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	var out []models.ScheduleWindow
	for _, d := range days {
		out = append(out, models.ScheduleWindow{Day: d, Start: start, End: end})
	}
	return out
}

func newTestService() (*DefaultBookingService, *fakeBookingRepo) {
	repo := &fakeBookingRepo{}
	listings := &fakeListingRepo{listings: map[string]models.Listing{
		"venue-1": {
			ID:                  "venue-1",
			ProviderID:          "prov-1",
			Kind:                models.ListingKindVenue,
			Title:               "Riverside Hall",
			Plans:               []models.Plan{{Name: "Standard", Price: 50}},
			Addons:              []models.Addon{{Name: "Sound system", Price: 75}},
			BookingDurationType: models.DurationPerHour,
			BookingDuration:     8,
			WorkingSchedule:     fullWeekSchedule("09:00", "17:00"),
			Published:           true,
		},
	}}
	return NewDefaultBookingService(repo, listings, nil, nil), repo
}

// futureAt returns a far-future timestamp so "start in the past" never trips.
func futureAt(dayOffset, hour int) time.Time {
	base := time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC) // a Monday
	return base.AddDate(0, 0, dayOffset).Add(time.Duration(hour) * time.Hour)
}

func TestCreateBooking_Succeeds(t *testing.T) {
	svc, _ := newTestService()

	b, err := svc.CreateBooking(context.Background(), "user-1", models.BookingCreateInput{
		ListingID:  "venue-1",
		Start:      futureAt(0, 10),
		End:        futureAt(0, 13),
		PlanName:   "Standard",
		AddonNames: []string{"Sound system"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "prov-1", b.ProviderID)
	// 3 hours at 50 plus the 75 addon.
	assert.Equal(t, 225.0, b.TotalPrice)
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, "user-2", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 11), End: futureAt(0, 13),
	})
	assert.ErrorIs(t, err, bookingRepo.ErrSlotTaken)
}

func TestCreateBooking_TouchingRangesBothLand(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, "user-2", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 12), End: futureAt(0, 14),
	})
	assert.NoError(t, err)
}

func TestCreateBooking_PolicyViolationRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 6), End: futureAt(0, 8),
	})
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, availability.CodeOutsideSchedule, verr.Code)
}

func TestCalendar_ReflectsCreatedBooking(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(1, 10), End: futureAt(1, 12),
	})
	require.NoError(t, err)

	view, err := svc.Calendar(ctx, "venue-1", futureAt(0, 0), futureAt(7, 0), "week")
	require.NoError(t, err)

	found := false
	for _, seg := range view.Segments {
		if seg.Kind == availability.SegmentBooked && seg.Start.Equal(futureAt(1, 10)) {
			found = true
		}
	}
	assert.True(t, found, "created booking should appear as a booked segment")
}

func TestCreateBooking_ConcurrentOverlapSingleWinner(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, fmt.Sprintf("user-%d", n), models.BookingCreateInput{
				ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	wins, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one overlapping submission may land")
	assert.Equal(t, attempts-1, conflicts)

	occupying, err := repo.GetOverlapping("venue-1", futureAt(0, 0), futureAt(1, 0))
	require.NoError(t, err)
	assert.Len(t, occupying, 1)
}

func TestCalendar_EmptyWhenBookingFetchFails(t *testing.T) {
	svc, repo := newTestService()
	repo.overlapErr = errors.New("connection reset")

	view, err := svc.Calendar(context.Background(), "venue-1", futureAt(0, 0), futureAt(7, 0), "week")
	require.NoError(t, err)
	assert.Empty(t, view.Segments, "unknown booking state must not render as available")
	assert.Equal(t, "week", view.Granularity)
}

func TestCalendar_DayGranularityUsesSubDaySegments(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.Calendar(context.Background(), "venue-1", futureAt(0, 0), futureAt(1, 0), "day")
	require.NoError(t, err)
	require.Equal(t, "day", view.Granularity)

	// The 09:00-17:00 window shows as a sub-day available segment, not a
	// full-day block.
	require.Len(t, view.Segments, 1)
	assert.Equal(t, availability.SegmentAvailable, view.Segments[0].Kind)
	assert.True(t, view.Segments[0].Start.Equal(futureAt(0, 9)))
	assert.True(t, view.Segments[0].End.Equal(futureAt(0, 17)))
}

func TestUpdateStatus_ProviderConfirms(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "prov-1", "provider", b.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
	assert.Equal(t, models.BookingStatusConfirmed, repo.bookings[0].Status)
}

func TestUpdateStatus_WrongProviderForbidden(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "prov-2", "provider", b.ID, models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatus_UserCannotConfirm(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "user-1", "user", b.ID, models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CancelledSlotReopens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "user-1", "user", b.ID, models.BookingStatusCancelled)
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, "user-2", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	assert.NoError(t, err, "cancelled bookings must not occupy the slot")
}

func TestCreateBlock_OwnerOnlyAndConflictChecked(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBlock(ctx, "prov-2", "venue-1", futureAt(0, 9), futureAt(0, 17), "maintenance")
	assert.ErrorIs(t, err, ErrForbidden)

	block, err := svc.CreateBlock(ctx, "prov-1", "venue-1", futureAt(0, 9), futureAt(0, 17), "maintenance")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, block.Status)

	_, err = svc.CreateBooking(ctx, "user-1", models.BookingCreateInput{
		ListingID: "venue-1", Start: futureAt(0, 10), End: futureAt(0, 12),
	})
	assert.ErrorIs(t, err, bookingRepo.ErrSlotTaken)
}

func TestBillableUnits_PerDayMidnightEnd(t *testing.T) {
	start := futureAt(0, 0)
	end := futureAt(2, 0) // exclusive midnight two days on
	assert.Equal(t, 2, billableUnits(models.DurationPerDay, start, end))
	assert.Equal(t, 3, billableUnits(models.DurationPerDay, start, end.Add(time.Hour)))
}
