// models/payment.go
package models

import "time"

// PaymentRequest describes a charge to be collected for a booking.
type PaymentRequest struct {
	UserID          string
	BookingID       string
	Amount          float64
	Currency        string
	PaymentMethodID string
	Description     string
	Metadata        map[string]string
}

// Invoice records the outcome of a payment attempt.
type Invoice struct {
	InvoiceID string    `bson:"invoiceId" json:"invoiceId"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	UserID    string    `bson:"userId" json:"userId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Status    string    `bson:"status" json:"status"` // "pending", "paid", "failed"
	PaymentID string    `bson:"paymentId,omitempty" json:"paymentId,omitempty"` // Stripe payment intent id
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
