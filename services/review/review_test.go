// services/review/review_test.go
package review

import (
	"context"
	"testing"
	"time"

	"gatherly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews []models.Review
}

func (f *fakeReviewRepo) Create(r *models.Review) error {
	f.reviews = append(f.reviews, *r)
	return nil
}

func (f *fakeReviewRepo) GetByListingID(listingID string, limit int64) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetByBookingID(bookingID string) (*models.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].BookingID == bookingID {
			r := f.reviews[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) Aggregates(listingID string) (float64, int, error) {
	sum, count := 0, 0
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeBookingReader struct {
	bookings map[string]models.Booking
}

func (f *fakeBookingReader) CreateIfFree(context.Context, *models.Booking) error { return nil }
func (f *fakeBookingReader) GetByID(id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}
func (f *fakeBookingReader) GetOverlapping(string, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingReader) GetByUserID(string, int64) ([]models.Booking, error)     { return nil, nil }
func (f *fakeBookingReader) GetByProviderID(string, int64) ([]models.Booking, error) { return nil, nil }
func (f *fakeBookingReader) GetFutureByListing(string, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingReader) UpdateStatus(string, string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingReader) AttachInvoice(string, *models.Invoice) error          { return nil }
func (f *fakeBookingReader) CompleteElapsed(time.Time) (int64, error)             { return 0, nil }
func (f *fakeBookingReader) GetStartingBetween(time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}

type aggregateRecorder struct {
	lastAvg   float64
	lastCount int
}

func (a *aggregateRecorder) Create(*models.Listing) error                       { return nil }
func (a *aggregateRecorder) GetByID(string) (*models.Listing, error)            { return nil, nil }
func (a *aggregateRecorder) GetByProviderID(string) ([]models.Listing, error)   { return nil, nil }
func (a *aggregateRecorder) Update(*models.Listing) error                       { return nil }
func (a *aggregateRecorder) Delete(string) error                                { return nil }
func (a *aggregateRecorder) Search(models.ListingFilter) ([]models.Listing, error) {
	return nil, nil
}
func (a *aggregateRecorder) UpdateSchedule(string, []models.ScheduleWindow, string, int) error {
	return nil
}
func (a *aggregateRecorder) UpdateReviewAggregates(id string, avg float64, count int) error {
	a.lastAvg = avg
	a.lastCount = count
	return nil
}
func (a *aggregateRecorder) SetHotDeal(string, *models.HotDealRef) error { return nil }

func newTestService(bookings map[string]models.Booking) (*DefaultReviewService, *aggregateRecorder) {
	recorder := &aggregateRecorder{}
	svc := NewDefaultReviewService(&fakeReviewRepo{}, &fakeBookingReader{bookings: bookings}, recorder)
	return svc, recorder
}

func TestCreateReview_RequiresCompletedOwnBooking(t *testing.T) {
	svc, _ := newTestService(map[string]models.Booking{
		"b-pending":   {ID: "b-pending", ListingID: "l1", UserID: "u1", Status: models.BookingStatusPending},
		"b-completed": {ID: "b-completed", ListingID: "l1", UserID: "u1", Status: models.BookingStatusCompleted},
	})
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, "u1", models.ReviewCreateInput{BookingID: "b-pending", Rating: 5})
	assert.ErrorIs(t, err, ErrBookingNotCompleted)

	_, err = svc.CreateReview(ctx, "u2", models.ReviewCreateInput{BookingID: "b-completed", Rating: 5})
	assert.Error(t, err, "someone else's booking must not be reviewable")

	r, err := svc.CreateReview(ctx, "u1", models.ReviewCreateInput{BookingID: "b-completed", Rating: 4, Comment: "great hall"})
	require.NoError(t, err)
	assert.Equal(t, "l1", r.ListingID)
}

func TestCreateReview_OnePerBooking(t *testing.T) {
	svc, _ := newTestService(map[string]models.Booking{
		"b1": {ID: "b1", ListingID: "l1", UserID: "u1", Status: models.BookingStatusCompleted},
	})
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, "u1", models.ReviewCreateInput{BookingID: "b1", Rating: 5})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, "u1", models.ReviewCreateInput{BookingID: "b1", Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreateReview_RefreshesAggregates(t *testing.T) {
	svc, recorder := newTestService(map[string]models.Booking{
		"b1": {ID: "b1", ListingID: "l1", UserID: "u1", Status: models.BookingStatusCompleted},
		"b2": {ID: "b2", ListingID: "l1", UserID: "u2", Status: models.BookingStatusCompleted},
	})
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, "u1", models.ReviewCreateInput{BookingID: "b1", Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, "u2", models.ReviewCreateInput{BookingID: "b2", Rating: 3})
	require.NoError(t, err)

	assert.Equal(t, 4.0, recorder.lastAvg)
	assert.Equal(t, 2, recorder.lastCount)
}
