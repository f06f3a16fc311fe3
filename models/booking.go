// models/booking.go
package models

import "time"

// Booking lifecycle statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
)

// Booking represents a reservation of a listing for an absolute time range.
// Start is inclusive and End exclusive; only pending and confirmed bookings
// occupy their range against new bookings.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	ListingID  string `bson:"listingId" json:"listingId"`
	ProviderID string `bson:"providerId" json:"providerId"`
	UserID     string `bson:"userId" json:"userId"`

	Start  time.Time `bson:"start" json:"start"` // UTC
	End    time.Time `bson:"end" json:"end"`     // UTC, exclusive
	Status string    `bson:"status" json:"status"`

	// Pricing snapshot captured at creation time, immutable afterwards.
	SelectedPlan   *Plan   `bson:"selectedPlan,omitempty" json:"selectedPlan,omitempty"`
	SelectedAddons []Addon `bson:"selectedAddons,omitempty" json:"selectedAddons,omitempty"`
	TotalPrice     float64 `bson:"totalPrice" json:"totalPrice"`

	// Note set by the consumer at creation, or the block reason for
	// provider-created manual blocks.
	Note string `bson:"note,omitempty" json:"note,omitempty"`

	Invoice *Invoice `bson:"invoice,omitempty" json:"invoice,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Occupies reports whether the booking blocks its time range against new
// bookings for the same listing.
func (b Booking) Occupies() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// BookingCreateInput is the payload for creating a booking.
type BookingCreateInput struct {
	ListingID       string    `json:"listingId" binding:"required"`
	Start           time.Time `json:"start" binding:"required"`
	End             time.Time `json:"end" binding:"required"`
	PlanName        string    `json:"planName,omitempty"`
	AddonNames      []string  `json:"addonNames,omitempty"`
	Note            string    `json:"note,omitempty"`
	PaymentMethodID string    `json:"paymentMethodId,omitempty"` // Stripe payment method
}

// BookingDraft is a short-lived calendar session held in Redis while a user
// browses a listing's calendar and settles on a range. Drafts never occupy
// slots; the authoritative conflict check happens only at confirmation.
type BookingDraft struct {
	SessionID  string    `json:"sessionId"`
	UserID     string    `json:"userId"`
	ListingID  string    `json:"listingId"`
	Start      time.Time `json:"start,omitempty"`
	End        time.Time `json:"end,omitempty"`
	PlanName   string    `json:"planName,omitempty"`
	AddonNames []string  `json:"addonNames,omitempty"`
	Note       string    `json:"note,omitempty"`
	TotalPrice float64   `json:"totalPrice,omitempty"`
	Quoted     bool      `json:"quoted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookingStatusUpdate is the payload for provider/consumer status transitions.
type BookingStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
