// services/provider/interface.go
package provider

import (
	"context"

	providerRepo "gatherly/database/repository/provider"
	"gatherly/models"
)

// AuthResponse is returned on successful registration or sign in.
type AuthResponse struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Token        string `json:"token"`
}

// ProviderService defines account operations for vendors and venue owners.
type ProviderService interface {
	RegisterProvider(ctx context.Context, p models.Provider) (*AuthResponse, error)
	AuthenticateProvider(ctx context.Context, email, password string) (*AuthResponse, error)
	RevokeToken(ctx context.Context, providerID string) error
	GetProviderByID(ctx context.Context, id string) (*models.Provider, error)
	UpdateProvider(ctx context.Context, p models.Provider) (*models.Provider, error)
	UpdateFCMToken(ctx context.Context, providerID, token string) error
	DeleteProvider(ctx context.Context, id string) error
}

// DefaultProviderService is the production implementation of ProviderService.
type DefaultProviderService struct {
	Repo providerRepo.ProviderRepository
}

func NewDefaultProviderService(repo providerRepo.ProviderRepository) *DefaultProviderService {
	return &DefaultProviderService{Repo: repo}
}
