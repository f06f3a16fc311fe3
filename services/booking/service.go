// services/booking/service.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gatherly/config"
	bookingRepo "gatherly/database/repository/booking"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking runs the full create path: policy validation, advisory
// conflict check, transactional reservation, then payment. The advisory check
// only exists to fail fast with a friendly error; the reservation inside
// CreateIfFree is what actually guarantees the slot.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, in models.BookingCreateInput) (*models.Booking, error) {
	listing, err := s.Listings.GetByID(in.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil || !listing.Published {
		return nil, fmt.Errorf("listing %s is not available for booking", in.ListingID)
	}

	now := time.Now().UTC()
	start, end := in.Start.UTC(), in.End.UTC()

	if verr := availability.ValidateProposal(availability.PolicyFor(*listing), start, end, now); verr != nil {
		return nil, verr
	}

	existing, err := s.Repo.GetOverlapping(in.ListingID, start, end)
	if err != nil {
		utils.GetLogger().Warn("CreateBooking: advisory conflict check failed", zap.Error(err))
	} else if conflict := availability.FindConflict(start, end, existing); conflict != nil {
		return nil, bookingRepo.ErrSlotTaken
	}

	plan, addons, total, err := priceProposal(listing, start, end, in.PlanName, in.AddonNames, now)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:             uuid.New().String(),
		ListingID:      listing.ID,
		ProviderID:     listing.ProviderID,
		UserID:         userID,
		Start:          start,
		End:            end,
		Status:         models.BookingStatusPending,
		SelectedPlan:   plan,
		SelectedAddons: addons,
		TotalPrice:     total,
		Note:           in.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Repo.CreateIfFree(ctx, b); err != nil {
		return nil, err
	}

	// The slot is reserved; collect payment against it. A failed charge
	// releases the reservation.
	if total > 0 && in.PaymentMethodID != "" {
		inv, payErr := s.PaymentHandler.ProcessPayment(ctx, models.PaymentRequest{
			UserID:          userID,
			BookingID:       b.ID,
			Amount:          total,
			Currency:        "usd",
			PaymentMethodID: in.PaymentMethodID,
			Description:     fmt.Sprintf("Booking for %s", listing.Title),
			Metadata:        map[string]string{"listingId": listing.ID},
		})
		if payErr != nil {
			if _, uerr := s.Repo.UpdateStatus(b.ID, models.BookingStatusCancelled); uerr != nil {
				utils.GetLogger().Error("CreateBooking: failed to release booking after payment failure",
					zap.String("booking", b.ID), zap.Error(uerr))
			}
			return nil, fmt.Errorf("payment failed: %w", payErr)
		}
		b.Invoice = inv
		if err := s.Repo.AttachInvoice(b.ID, inv); err != nil {
			utils.GetLogger().Error("CreateBooking: failed to persist invoice",
				zap.String("booking", b.ID), zap.Error(err))
		}
	}

	s.invalidateCalendar(ctx, listing.ID)
	s.notifyProvider(b.ProviderID, "New booking request",
		fmt.Sprintf("%s was booked for %s.", listing.Title, b.Start.Format("Jan 2 15:04")),
		map[string]string{"bookingId": b.ID, "listingId": listing.ID})

	return b, nil
}

// CreateBlock lets a provider take a range of their own listing off the
// market. Blocks skip policy and payment but still go through the
// transactional conflict check so they cannot land on an existing booking.
func (s *DefaultBookingService) CreateBlock(ctx context.Context, providerID, listingID string, start, end time.Time, note string) (*models.Booking, error) {
	listing, err := s.Listings.GetByID(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s not found", listingID)
	}
	if listing.ProviderID != providerID {
		return nil, ErrForbidden
	}

	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return nil, fmt.Errorf("block start must be before its end")
	}

	now := time.Now().UTC()
	b := &models.Booking{
		ID:         uuid.New().String(),
		ListingID:  listingID,
		ProviderID: providerID,
		UserID:     providerID,
		Start:      start,
		End:        end,
		Status:     models.BookingStatusConfirmed,
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.CreateIfFree(ctx, b); err != nil {
		return nil, err
	}
	s.invalidateCalendar(ctx, listingID)
	return b, nil
}

// allowedTransitions maps caller role to the status changes it may perform.
var allowedTransitions = map[string]map[string][]string{
	"provider": {
		models.BookingStatusConfirmed: {models.BookingStatusPending},
		models.BookingStatusRejected:  {models.BookingStatusPending},
		models.BookingStatusCompleted: {models.BookingStatusConfirmed},
	},
	"user": {
		models.BookingStatusCancelled: {models.BookingStatusPending, models.BookingStatusConfirmed},
	},
}

// UpdateStatus applies a lifecycle transition after checking the caller owns
// the relevant side of the booking.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, callerID, callerRole, bookingID, newStatus string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	switch callerRole {
	case "provider":
		if b.ProviderID != callerID {
			return nil, ErrForbidden
		}
	case "user":
		if b.UserID != callerID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	fromStates, ok := allowedTransitions[callerRole][newStatus]
	if !ok {
		return nil, ErrInvalidTransition
	}
	legal := false
	for _, from := range fromStates {
		if b.Status == from {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrInvalidTransition
	}

	updated, err := s.Repo.UpdateStatus(bookingID, newStatus)
	if err != nil {
		return nil, err
	}
	s.invalidateCalendar(ctx, b.ListingID)

	data := map[string]string{"bookingId": b.ID, "status": newStatus}
	switch newStatus {
	case models.BookingStatusConfirmed:
		s.notifyUser(b.UserID, "Booking confirmed", "Your booking has been confirmed.", data)
	case models.BookingStatusRejected:
		s.notifyUser(b.UserID, "Booking declined", "Your booking request was declined.", data)
	case models.BookingStatusCancelled:
		s.notifyProvider(b.ProviderID, "Booking cancelled", "A booking was cancelled by the customer.", data)
	}
	return updated, nil
}

func (s *DefaultBookingService) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	return b, nil
}

func (s *DefaultBookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.GetByUserID(userID, 100)
}

func (s *DefaultBookingService) GetProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.Repo.GetByProviderID(providerID, 100)
}

func (s *DefaultBookingService) GetListingBookings(ctx context.Context, listingID string, from, to time.Time) ([]models.Booking, error) {
	return s.Repo.GetOverlapping(listingID, from.UTC(), to.UTC())
}

// Calendar classifies the listing's range into booked/available/unavailable
// segments. Results are cached briefly in Redis; a failed booking fetch
// degrades to an empty calendar rather than an error or a guessed view.
func (s *DefaultBookingService) Calendar(ctx context.Context, listingID string, from, to time.Time, granularity string) (*CalendarView, error) {
	listing, err := s.Listings.GetByID(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s not found", listingID)
	}

	from, to = from.UTC(), to.UTC()
	gran := availability.GranularityMonth
	if granularity == "week" || granularity == "day" {
		gran = availability.GranularityWeek
	} else {
		granularity = "month"
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%d:%d", utils.CalendarCachePrefix, listingID, granularity, from.Unix(), to.Unix())
	cache := utils.GetCacheClient()
	if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		var view CalendarView
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			return &view, nil
		}
	}

	bookings, err := s.Repo.GetOverlapping(listingID, from, to)
	if err != nil {
		// Without booking state the schedule alone would show booked days as
		// available, so serve no segments at all. Not cached.
		utils.GetLogger().Warn("Calendar: booking fetch failed, serving empty calendar",
			zap.String("listing", listingID), zap.Error(err))
		return &CalendarView{
			ListingID:   listingID,
			From:        from,
			To:          to,
			Granularity: granularity,
			Segments:    []availability.Segment{},
		}, nil
	}

	view := &CalendarView{
		ListingID:   listingID,
		From:        from,
		To:          to,
		Granularity: granularity,
		Segments:    availability.Classify(from, to, listing.WorkingSchedule, bookings, gran),
	}

	if data, err := json.Marshal(view); err == nil {
		ttl := time.Duration(config.AppConfig.CalendarCacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		if err := cache.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			utils.GetLogger().Debug("Calendar: cache store failed", zap.Error(err))
		}
	}
	return view, nil
}

// invalidateCalendar drops cached calendar ranges for a listing after a
// booking mutation.
func (s *DefaultBookingService) invalidateCalendar(ctx context.Context, listingID string) {
	cache := utils.GetCacheClient()
	iter := cache.Scan(ctx, 0, utils.CalendarCachePrefix+listingID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := cache.Del(ctx, iter.Val()).Err(); err != nil {
			utils.GetLogger().Debug("invalidateCalendar: delete failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Debug("invalidateCalendar: scan failed", zap.Error(err))
	}
}

func (s *DefaultBookingService) notifyUser(userID, title, body string, data map[string]string) {
	if s.NotificationSvc == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.NotificationSvc.SendUserPush(ctx, userID, title, body, data); err != nil {
			utils.GetLogger().Debug("booking push to user failed", zap.Error(err))
		}
	}()
}

func (s *DefaultBookingService) notifyProvider(providerID, title, body string, data map[string]string) {
	if s.NotificationSvc == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.NotificationSvc.SendProviderPush(ctx, providerID, title, body, data); err != nil {
			utils.GetLogger().Debug("booking push to provider failed", zap.Error(err))
		}
	}()
}
