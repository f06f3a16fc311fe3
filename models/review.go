// models/review.go
package models

import "time"

// Review is a consumer's rating of a listing, tied to a completed booking.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	ListingID string    `bson:"listingId" json:"listingId"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	UserID    string    `bson:"userId" json:"userId"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ReviewCreateInput is the payload for posting a review.
type ReviewCreateInput struct {
	BookingID string `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty"`
}
