// services/booking/interface.go
package booking

import (
	"context"
	"time"

	bookingRepo "gatherly/database/repository/booking"
	listingRepo "gatherly/database/repository/listing"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/services/notification"
	"gatherly/services/payment"
)

// CalendarView is the classified calendar returned for a listing range.
type CalendarView struct {
	ListingID   string                 `json:"listingId"`
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Granularity string                 `json:"granularity"` // "month" or "week"
	Segments    []availability.Segment `json:"segments"`
}

// Quote is the priced summary of a draft proposal.
type Quote struct {
	SessionID  string             `json:"sessionId"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Plan       *models.Plan       `json:"plan,omitempty"`
	Addons     []models.Addon     `json:"addons,omitempty"`
	TotalPrice float64            `json:"totalPrice"`
	HotDeal    *models.HotDealRef `json:"hotDeal,omitempty"`
}

// BookingSessionService manages the stateful draft flow: open a calendar
// session, quote a proposed range, then confirm it into a real booking.
type BookingSessionService interface {
	InitiateSession(ctx context.Context, userID, listingID string, from, to time.Time, granularity string) (string, *CalendarView, error)
	QuoteSession(ctx context.Context, userID, sessionID string, start, end time.Time, planName string, addonNames []string, note string) (*Quote, error)
	ConfirmSession(ctx context.Context, userID, sessionID, paymentMethodID string) (*models.Booking, error)
	CancelSession(ctx context.Context, userID, sessionID string) error
}

// BookingService defines the direct (sessionless) booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, in models.BookingCreateInput) (*models.Booking, error)
	CreateBlock(ctx context.Context, providerID, listingID string, start, end time.Time, note string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, callerID, callerRole, bookingID, newStatus string) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error)
	GetListingBookings(ctx context.Context, listingID string, from, to time.Time) ([]models.Booking, error)
	Calendar(ctx context.Context, listingID string, from, to time.Time, granularity string) (*CalendarView, error)
}

// DefaultBookingService implements both BookingService and
// BookingSessionService.
type DefaultBookingService struct {
	Repo            bookingRepo.BookingRepository
	Listings        listingRepo.ListingRepository
	PaymentHandler  payment.PaymentHandler
	NotificationSvc notification.NotificationService
}

func NewDefaultBookingService(
	repo bookingRepo.BookingRepository,
	listings listingRepo.ListingRepository,
	paymentHandler payment.PaymentHandler,
	notificationSvc notification.NotificationService,
) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:            repo,
		Listings:        listings,
		PaymentHandler:  paymentHandler,
		NotificationSvc: notificationSvc,
	}
}
