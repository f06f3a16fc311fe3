// handlers/bundle.go
package handlers

import (
	providerRepoPkg "gatherly/database/repository/provider"
	userRepoPkg "gatherly/database/repository/user"
)

// HandlerBundle groups all endpoint handlers plus the repositories the auth
// middleware needs.
type HandlerBundle struct {
	UserRepo     userRepoPkg.UserRepository
	ProviderRepo providerRepoPkg.ProviderRepository

	User      *UserHandler
	Provider  *ProviderHandler
	Listing   *ListingHandler
	Booking   *BookingHandler
	Review    *ReviewHandler
	Promotion *PromotionHandler
	Chat      *ChatHandler
}
