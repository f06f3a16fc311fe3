package listingRepo

import "gatherly/models"

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id string) (*models.Listing, error)
	GetByProviderID(providerID string) ([]models.Listing, error)
	Update(listing *models.Listing) error
	Delete(id string) error
	Search(filter models.ListingFilter) ([]models.Listing, error)

	// UpdateSchedule replaces the working schedule and booking policy of a
	// listing without touching the rest of the document.
	UpdateSchedule(id string, schedule []models.ScheduleWindow, durationType string, duration int) error

	// UpdateReviewAggregates sets the denormalized rating fields.
	UpdateReviewAggregates(id string, avgRating float64, reviewCount int) error

	// SetHotDeal attaches (or, with nil, clears) the active hot deal snapshot.
	SetHotDeal(id string, deal *models.HotDealRef) error
}
