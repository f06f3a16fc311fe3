// services/listing/listing_test.go
package listing

import (
	"context"
	"testing"
	"time"

	"gatherly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
func (f *fakeListingRepo) GetByProviderID(providerID string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		if l.ProviderID == providerID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (f *fakeListingRepo) Update(l *models.Listing) error { f.listings[l.ID] = *l; return nil }
func (f *fakeListingRepo) Delete(id string) error         { delete(f.listings, id); return nil }
func (f *fakeListingRepo) Search(models.ListingFilter) ([]models.Listing, error) {
	return nil, nil
}
func (f *fakeListingRepo) UpdateSchedule(id string, schedule []models.ScheduleWindow, durationType string, duration int) error {
	l := f.listings[id]
	l.WorkingSchedule = schedule
	l.BookingDurationType = durationType
	l.BookingDuration = duration
	f.listings[id] = l
	return nil
}
func (f *fakeListingRepo) UpdateReviewAggregates(string, float64, int) error { return nil }
func (f *fakeListingRepo) SetHotDeal(string, *models.HotDealRef) error       { return nil }

// fakeBookingReader serves a fixed set of future bookings; everything else is
// unused by the listing service.
type fakeBookingReader struct {
	future []models.Booking
}

func (f *fakeBookingReader) CreateIfFree(context.Context, *models.Booking) error { return nil }
func (f *fakeBookingReader) GetByID(string) (*models.Booking, error)             { return nil, nil }
func (f *fakeBookingReader) GetOverlapping(string, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingReader) GetByUserID(string, int64) ([]models.Booking, error)     { return nil, nil }
func (f *fakeBookingReader) GetByProviderID(string, int64) ([]models.Booking, error) { return nil, nil }
func (f *fakeBookingReader) GetFutureByListing(string, time.Time) ([]models.Booking, error) {
	return f.future, nil
}
func (f *fakeBookingReader) UpdateStatus(string, string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingReader) AttachInvoice(string, *models.Invoice) error          { return nil }
func (f *fakeBookingReader) CompleteElapsed(time.Time) (int64, error)             { return 0, nil }
func (f *fakeBookingReader) GetStartingBetween(time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}

func weekdaysOnly(start, end string) []models.ScheduleWindow {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	var out []models.ScheduleWindow
	for _, d := range days {
		out = append(out, models.ScheduleWindow{Day: d, Start: start, End: end})
	}
	return out
}

func newTestService(bookings *fakeBookingReader) (*DefaultListingService, *fakeListingRepo) {
	repo := &fakeListingRepo{listings: map[string]models.Listing{}}
	return NewDefaultListingService(repo, bookings), repo
}

func TestCreateListing_ValidatesKindAndSchedule(t *testing.T) {
	svc, _ := newTestService(&fakeBookingReader{})
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, "prov-1", models.Listing{
		Title: "Hall", Kind: "warehouse",
	})
	assert.Error(t, err, "unknown kind must be rejected")

	_, err = svc.CreateListing(ctx, "prov-1", models.Listing{
		Title: "Hall", Kind: models.ListingKindVenue,
		WorkingSchedule: []models.ScheduleWindow{{Day: "Monday", Start: "17:00", End: "09:00"}},
	})
	assert.Error(t, err, "inverted window must be rejected")

	created, err := svc.CreateListing(ctx, "prov-1", models.Listing{
		Title: "Hall", Kind: models.ListingKindVenue,
		WorkingSchedule: weekdaysOnly("09:00", "17:00"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "prov-1", created.ProviderID)
}

func TestUpdateSchedule_GrandfathersAndCounts(t *testing.T) {
	// A Monday far in the future, so bookings are not in the past.
	monday := time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC)
	saturday := monday.AddDate(0, 0, 5)

	bookings := &fakeBookingReader{future: []models.Booking{
		{ID: "b1", Status: models.BookingStatusConfirmed,
			Start: monday.Add(10 * time.Hour), End: monday.Add(12 * time.Hour)},
		{ID: "b2", Status: models.BookingStatusConfirmed,
			Start: saturday.Add(10 * time.Hour), End: saturday.Add(12 * time.Hour)},
		{ID: "b3", Status: models.BookingStatusCancelled,
			Start: saturday.Add(13 * time.Hour), End: saturday.Add(14 * time.Hour)},
	}}
	svc, repo := newTestService(bookings)
	ctx := context.Background()

	created, err := svc.CreateListing(ctx, "prov-1", models.Listing{
		Title: "Hall", Kind: models.ListingKindVenue,
		BookingDurationType: models.DurationPerHour,
		WorkingSchedule: append(weekdaysOnly("09:00", "17:00"),
			models.ScheduleWindow{Day: "Saturday", Start: "09:00", End: "17:00"}),
	})
	require.NoError(t, err)

	// Dropping Saturday strands b2; the cancelled b3 does not count.
	orphaned, err := svc.UpdateSchedule(ctx, "prov-1", created.ID,
		weekdaysOnly("09:00", "17:00"), models.DurationPerHour, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, orphaned)

	stored := repo.listings[created.ID]
	assert.Len(t, stored.WorkingSchedule, 5)
}

func TestUpdateSchedule_OwnershipEnforced(t *testing.T) {
	svc, _ := newTestService(&fakeBookingReader{})
	ctx := context.Background()

	created, err := svc.CreateListing(ctx, "prov-1", models.Listing{
		Title: "Hall", Kind: models.ListingKindVenue,
		WorkingSchedule: weekdaysOnly("09:00", "17:00"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateSchedule(ctx, "prov-2", created.ID,
		weekdaysOnly("10:00", "16:00"), models.DurationPerHour, 4)
	assert.Error(t, err)
}
