// models/promotion.go
package models

import "time"

// Promotion statuses.
const (
	PromotionStatusActive    = "active"
	PromotionStatusScheduled = "scheduled"
	PromotionStatusExpired   = "expired"
	PromotionStatusCancelled = "cancelled"
)

// Promotion is a time-bounded hot deal attached to a listing. Promoted
// placement is billed through a Stripe subscription owned by the provider.
type Promotion struct {
	ID         string `bson:"id" json:"id"`
	ListingID  string `bson:"listingId" json:"listingId"`
	ProviderID string `bson:"providerId" json:"providerId"`

	PercentOff int       `bson:"percentOff" json:"percentOff"` // 1..90
	StartsAt   time.Time `bson:"startsAt" json:"startsAt"`
	EndsAt     time.Time `bson:"endsAt" json:"endsAt"`
	Status     string    `bson:"status" json:"status"`

	StripeSubscriptionID string `bson:"stripeSubscriptionId,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PromotionCreateInput is the payload for creating a hot deal.
type PromotionCreateInput struct {
	ListingID  string    `json:"listingId" binding:"required"`
	PercentOff int       `json:"percentOff" binding:"required,min=1,max=90"`
	StartsAt   time.Time `json:"startsAt" binding:"required"`
	EndsAt     time.Time `json:"endsAt" binding:"required"`
}
