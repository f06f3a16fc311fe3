// services/booking/session.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gatherly/config"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"

	"github.com/google/uuid"
)

func draftTTL() time.Duration {
	minutes := config.AppConfig.BookingDraftTTLMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

func draftKey(sessionID string) string {
	return utils.BookingDraftPrefix + sessionID
}

// InitiateSession opens a calendar session against a listing: it classifies
// the requested range and parks a draft in Redis under a fresh session ID.
func (s *DefaultBookingService) InitiateSession(ctx context.Context, userID, listingID string, from, to time.Time, granularity string) (string, *CalendarView, error) {
	view, err := s.Calendar(ctx, listingID, from, to, granularity)
	if err != nil {
		return "", nil, err
	}

	sessionID := uuid.New().String()
	draft := models.BookingDraft{
		SessionID: sessionID,
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.saveDraft(ctx, draft); err != nil {
		return "", nil, err
	}
	return sessionID, view, nil
}

// QuoteSession validates and prices a proposed range on an open session. The
// conflict answer here is advisory only; the range is not held.
func (s *DefaultBookingService) QuoteSession(ctx context.Context, userID, sessionID string, start, end time.Time, planName string, addonNames []string, note string) (*Quote, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, ErrForbidden
	}

	listing, err := s.Listings.GetByID(draft.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil || !listing.Published {
		return nil, fmt.Errorf("listing %s is not available for booking", draft.ListingID)
	}

	now := time.Now().UTC()
	start, end = start.UTC(), end.UTC()

	if verr := availability.ValidateProposal(availability.PolicyFor(*listing), start, end, now); verr != nil {
		return nil, verr
	}
	existing, err := s.Repo.GetOverlapping(draft.ListingID, start, end)
	if err == nil {
		if conflict := availability.FindConflict(start, end, existing); conflict != nil {
			return nil, availability.SlotTakenError(conflict)
		}
	}

	plan, addons, total, err := priceProposal(listing, start, end, planName, addonNames, now)
	if err != nil {
		return nil, err
	}

	draft.Start = start
	draft.End = end
	draft.PlanName = planName
	draft.AddonNames = addonNames
	draft.Note = note
	draft.TotalPrice = total
	draft.Quoted = true
	if err := s.saveDraft(ctx, *draft); err != nil {
		return nil, err
	}

	return &Quote{
		SessionID:  sessionID,
		Start:      start,
		End:        end,
		Plan:       plan,
		Addons:     addons,
		TotalPrice: total,
		HotDeal:    listing.HotDeal,
	}, nil
}

// ConfirmSession turns a quoted draft into a real booking through the same
// transactional create path as direct bookings, then discards the draft.
func (s *DefaultBookingService) ConfirmSession(ctx context.Context, userID, sessionID, paymentMethodID string) (*models.Booking, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, ErrForbidden
	}
	if !draft.Quoted {
		return nil, ErrNotQuoted
	}

	b, err := s.CreateBooking(ctx, userID, models.BookingCreateInput{
		ListingID:       draft.ListingID,
		Start:           draft.Start,
		End:             draft.End,
		PlanName:        draft.PlanName,
		AddonNames:      draft.AddonNames,
		Note:            draft.Note,
		PaymentMethodID: paymentMethodID,
	})
	if err != nil {
		return nil, err
	}

	if derr := utils.GetCacheClient().Del(ctx, draftKey(sessionID)).Err(); derr != nil {
		utils.GetLogger().Debug("ConfirmSession: draft cleanup failed")
	}
	return b, nil
}

// CancelSession discards a draft without touching any booking.
func (s *DefaultBookingService) CancelSession(ctx context.Context, userID, sessionID string) error {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return err
	}
	if draft.UserID != userID {
		return ErrForbidden
	}
	return utils.GetCacheClient().Del(ctx, draftKey(sessionID)).Err()
}

func (s *DefaultBookingService) saveDraft(ctx context.Context, draft models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := utils.GetCacheClient().Set(ctx, draftKey(draft.SessionID), data, draftTTL()).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}

func (s *DefaultBookingService) loadDraft(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	data, err := utils.GetCacheClient().Get(ctx, draftKey(sessionID)).Result()
	if err != nil {
		return nil, ErrSessionExpired
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return &draft, nil
}
