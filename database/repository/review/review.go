package reviewRepo

import "gatherly/models"

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByListingID(listingID string, limit int64) ([]models.Review, error)
	GetByBookingID(bookingID string) (*models.Review, error)

	// Aggregates recomputes the average rating and count for a listing.
	Aggregates(listingID string) (avg float64, count int, err error)
}
