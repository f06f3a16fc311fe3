// services/listing/listing.go
package listing

import (
	"context"
	"fmt"
	"time"

	bookingRepo "gatherly/database/repository/booking"
	listingRepo "gatherly/database/repository/listing"
	"gatherly/models"
	"gatherly/services/availability"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingService defines operations on vendor and venue listings.
type ListingService interface {
	CreateListing(ctx context.Context, providerID string, l models.Listing) (*models.Listing, error)
	GetListingByID(ctx context.Context, id string) (*models.Listing, error)
	GetProviderListings(ctx context.Context, providerID string) ([]models.Listing, error)
	UpdateListing(ctx context.Context, providerID string, l models.Listing) (*models.Listing, error)
	DeleteListing(ctx context.Context, providerID, id string) error
	Search(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)

	// UpdateSchedule replaces the listing's working schedule and booking
	// policy. Existing bookings are grandfathered: the returned count says
	// how many future bookings no longer fit the new schedule.
	UpdateSchedule(ctx context.Context, providerID, id string, schedule []models.ScheduleWindow, durationType string, duration int) (orphaned int, err error)
}

// DefaultListingService is the production implementation of ListingService.
type DefaultListingService struct {
	Repo     listingRepo.ListingRepository
	Bookings bookingRepo.BookingRepository
}

func NewDefaultListingService(repo listingRepo.ListingRepository, bookings bookingRepo.BookingRepository) *DefaultListingService {
	return &DefaultListingService{Repo: repo, Bookings: bookings}
}

func (s *DefaultListingService) CreateListing(ctx context.Context, providerID string, l models.Listing) (*models.Listing, error) {
	if l.Title == "" {
		return nil, fmt.Errorf("listing title is required")
	}
	if l.Kind != models.ListingKindVendor && l.Kind != models.ListingKindVenue {
		return nil, fmt.Errorf("listing kind must be %q or %q", models.ListingKindVendor, models.ListingKindVenue)
	}
	if err := validatePolicy(l.BookingDurationType, l.BookingDuration); err != nil {
		return nil, err
	}
	if err := validateSchedule(l.WorkingSchedule); err != nil {
		return nil, err
	}

	l.ID = uuid.New().String()
	l.ProviderID = providerID
	if l.LocationGeo.Type == "" {
		l.LocationGeo = models.GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
	}
	l.AvgRating = 0
	l.ReviewCount = 0
	l.HotDeal = nil
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt

	if err := s.Repo.Create(&l); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &l, nil
}

func (s *DefaultListingService) GetListingByID(ctx context.Context, id string) (*models.Listing, error) {
	l, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("listing with id %s not found", id)
	}
	return l, nil
}

func (s *DefaultListingService) GetProviderListings(ctx context.Context, providerID string) ([]models.Listing, error) {
	return s.Repo.GetByProviderID(providerID)
}

// UpdateListing applies content edits by the owning provider. Schedule and
// booking policy changes go through UpdateSchedule so grandfathering is
// always assessed.
func (s *DefaultListingService) UpdateListing(ctx context.Context, providerID string, l models.Listing) (*models.Listing, error) {
	existing, err := s.owned(providerID, l.ID)
	if err != nil {
		return nil, err
	}

	if l.Title != "" {
		existing.Title = l.Title
	}
	if l.Description != "" {
		existing.Description = l.Description
	}
	if l.Category != "" {
		existing.Category = l.Category
	}
	if l.Address != "" {
		existing.Address = l.Address
	}
	if len(l.LocationGeo.Coordinates) == 2 {
		existing.LocationGeo = models.GeoPoint{Type: "Point", Coordinates: l.LocationGeo.Coordinates}
	}
	if l.Photos != nil {
		existing.Photos = l.Photos
	}
	if l.Plans != nil {
		existing.Plans = l.Plans
	}
	if l.Addons != nil {
		existing.Addons = l.Addons
	}
	existing.Published = l.Published
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return existing, nil
}

func (s *DefaultListingService) DeleteListing(ctx context.Context, providerID, id string) error {
	if _, err := s.owned(providerID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (s *DefaultListingService) Search(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	return s.Repo.Search(filter)
}

func (s *DefaultListingService) UpdateSchedule(ctx context.Context, providerID, id string, schedule []models.ScheduleWindow, durationType string, duration int) (int, error) {
	listing, err := s.owned(providerID, id)
	if err != nil {
		return 0, err
	}
	if err := validatePolicy(durationType, duration); err != nil {
		return 0, err
	}
	if err := validateSchedule(schedule); err != nil {
		return 0, err
	}

	if err := s.Repo.UpdateSchedule(id, schedule, durationType, duration); err != nil {
		return 0, fmt.Errorf("failed to update schedule: %w", err)
	}

	// Existing bookings keep their slots. Count the future ones that the new
	// schedule would reject so the provider can follow up manually.
	now := time.Now().UTC()
	future, err := s.Bookings.GetFutureByListing(id, now)
	if err != nil {
		utils.GetLogger().Warn("UpdateSchedule: could not assess existing bookings", zap.Error(err))
		return 0, nil
	}

	policy := availability.Policy{
		DurationType: durationType,
		MaxDuration:  duration,
		Schedule:     schedule,
	}
	orphaned := 0
	for _, b := range future {
		if !b.Occupies() {
			continue
		}
		if verr := availability.ValidateProposal(policy, b.Start, b.End, now); verr != nil {
			orphaned++
		}
	}
	if orphaned > 0 {
		utils.GetLogger().Warn("UpdateSchedule: future bookings fall outside the new schedule",
			zap.String("listing", listing.ID),
			zap.Int("count", orphaned))
	}
	return orphaned, nil
}

// owned fetches a listing and checks the caller is its provider.
func (s *DefaultListingService) owned(providerID, id string) (*models.Listing, error) {
	l, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("listing with id %s not found", id)
	}
	if l.ProviderID != providerID {
		return nil, fmt.Errorf("listing %s does not belong to provider %s", id, providerID)
	}
	return l, nil
}

func validatePolicy(durationType string, duration int) error {
	switch durationType {
	case "", models.DurationPerHour, models.DurationPerDay:
	default:
		return fmt.Errorf("booking duration type must be %q or %q", models.DurationPerHour, models.DurationPerDay)
	}
	if duration < 0 {
		return fmt.Errorf("booking duration cannot be negative")
	}
	return nil
}

func validateSchedule(schedule []models.ScheduleWindow) error {
	for _, w := range schedule {
		if !validDay(w.Day) {
			return fmt.Errorf("invalid schedule day %q", w.Day)
		}
		start, err := time.Parse("15:04", w.Start)
		if err != nil {
			return fmt.Errorf("invalid schedule start %q", w.Start)
		}
		end, err := time.Parse("15:04", w.End)
		if err != nil {
			return fmt.Errorf("invalid schedule end %q", w.End)
		}
		if !start.Before(end) {
			return fmt.Errorf("schedule window %s %s-%s must start before it ends", w.Day, w.Start, w.End)
		}
	}
	return nil
}

func validDay(day string) bool {
	switch day {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}
