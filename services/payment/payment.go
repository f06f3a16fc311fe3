// services/payment/payment.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/models"
	"gatherly/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// --- Interfaces ---
type PaymentHandler interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
}

// --- PaymentHandler Implementation ---
type StripePaymentHandler struct {
	logger *zap.Logger
}

// --- NewPaymentHandler Constructor ---
func NewPaymentHandler(logger *zap.Logger) *StripePaymentHandler {
	return &StripePaymentHandler{logger: logger}
}

func validateRequest(req models.PaymentRequest) error {
	if req.UserID == "" {
		return errors.New("missing user id")
	}
	if req.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if req.Currency == "" {
		return errors.New("missing currency")
	}
	if req.PaymentMethodID == "" {
		return errors.New("missing payment method")
	}
	return nil
}

// --- ProcessPayment Entry Point ---
// Charges the booking amount via a Stripe payment intent. The intent is
// confirmed immediately with the supplied payment method.
func (h *StripePaymentHandler) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(req.Amount)),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}
	// Retrying the same booking must not double-charge.
	params.IdempotencyKey = stripe.String("booking:" + req.BookingID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("bookingId", req.BookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		inv.Status = "failed"
		inv.Error = err.Error()
		h.logger.Error("payment intent failed",
			zap.String("invoice", inv.InvoiceID),
			zap.String("booking", req.BookingID),
			zap.Error(err))
		return inv, fmt.Errorf("payment failed: %w", err)
	}

	inv.PaymentID = pi.ID
	inv.UpdatedAt = time.Now().UTC()
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		inv.Status = "paid"
	case stripe.PaymentIntentStatusProcessing:
		inv.Status = "pending"
	default:
		inv.Status = "failed"
		inv.Error = string(pi.Status)
		return inv, fmt.Errorf("payment not completed: intent status %s", pi.Status)
	}

	h.logger.Info("Payment successful",
		zap.String("invoice", inv.InvoiceID),
		zap.String("paymentIntent", pi.ID),
		zap.Float64("amount", inv.Amount))
	return inv, nil
}

// toMinorUnits converts a decimal amount to the smallest currency unit.
func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// --- Utility: global Stripe key setup (called once from main) ---
func InitStripe(key string) {
	stripe.Key = key
	if key == "" {
		utils.Logger.Warn("Stripe key not configured; payments will fail")
	}
}
