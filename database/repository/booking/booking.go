package bookingRepo

import (
	"context"
	"errors"
	"time"

	"gatherly/models"
)

// ErrSlotTaken is returned by CreateIfFree when an occupying booking already
// overlaps the requested range.
var ErrSlotTaken = errors.New("booking slot already taken")

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// CreateIfFree inserts the booking only if no pending or confirmed
	// booking for the same listing overlaps its [start, end) range. The
	// overlap re-check and the insert run inside one MongoDB transaction so
	// concurrent overlapping submissions cannot both land; on conflict it
	// returns ErrSlotTaken.
	CreateIfFree(ctx context.Context, booking *models.Booking) error

	GetByID(id string) (*models.Booking, error)
	GetOverlapping(listingID string, from, to time.Time) ([]models.Booking, error)
	GetByUserID(userID string, limit int64) ([]models.Booking, error)
	GetByProviderID(providerID string, limit int64) ([]models.Booking, error)
	GetFutureByListing(listingID string, after time.Time) ([]models.Booking, error)
	UpdateStatus(id, status string) (*models.Booking, error)

	// AttachInvoice stores the payment outcome on the booking.
	AttachInvoice(id string, inv *models.Invoice) error

	// CompleteElapsed moves confirmed bookings whose end has passed to
	// completed and returns how many were transitioned.
	CompleteElapsed(now time.Time) (int64, error)

	// GetStartingBetween returns confirmed bookings starting inside
	// [from, to), used for reminder pushes.
	GetStartingBetween(from, to time.Time) ([]models.Booking, error)
}
