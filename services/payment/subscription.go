// services/payment/subscription.go
package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"go.uber.org/zap"
)

// SubscriptionHandler manages the recurring Stripe charges behind hot deal
// promotions. Each promotion maps to one Stripe subscription on the
// provider's Stripe customer.
type SubscriptionHandler interface {
	CreateSubscription(email, name, priceID string) (subscriptionID string, err error)
	CancelSubscription(subscriptionID string) error
}

type StripeSubscriptionHandler struct {
	logger *zap.Logger
}

func NewSubscriptionHandler(logger *zap.Logger) *StripeSubscriptionHandler {
	return &StripeSubscriptionHandler{logger: logger}
}

func (h *StripeSubscriptionHandler) CreateSubscription(email, name, priceID string) (string, error) {
	if priceID == "" {
		return "", fmt.Errorf("no promotion price configured")
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	sub, err := subscription.New(&stripe.SubscriptionParams{
		Customer: stripe.String(cust.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create stripe subscription: %w", err)
	}

	h.logger.Info("Stripe subscription created",
		zap.String("customer", cust.ID),
		zap.String("subscription", sub.ID))
	return sub.ID, nil
}

func (h *StripeSubscriptionHandler) CancelSubscription(subscriptionID string) error {
	if subscriptionID == "" {
		return nil
	}
	if _, err := subscription.Cancel(subscriptionID, &stripe.SubscriptionCancelParams{}); err != nil {
		return fmt.Errorf("failed to cancel stripe subscription %s: %w", subscriptionID, err)
	}
	h.logger.Info("Stripe subscription cancelled", zap.String("subscription", subscriptionID))
	return nil
}
