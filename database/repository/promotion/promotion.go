package promotionRepo

import (
	"time"

	"gatherly/models"
)

// PromotionRepository defines persistence operations for hot deals.
type PromotionRepository interface {
	Create(promotion *models.Promotion) error
	GetByID(id string) (*models.Promotion, error)
	GetActiveByListing(listingID string) (*models.Promotion, error)
	GetByProviderID(providerID string) ([]models.Promotion, error)
	UpdateStatus(id, status string) error

	// ExpireElapsed moves active promotions whose end has passed to expired
	// and returns them so the caller can clear listing snapshots.
	ExpireElapsed(now time.Time) ([]models.Promotion, error)

	// ActivateDue moves scheduled promotions whose start has passed to
	// active and returns them.
	ActivateDue(now time.Time) ([]models.Promotion, error)
}
