// services/provider/provider.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/models"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenValidity = 72 * time.Hour

// ErrInvalidCredentials is returned when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// DuplicateEmailError signals that an account already exists for the email.
type DuplicateEmailError struct {
	Email string
}

func (e DuplicateEmailError) Error() string {
	return "a provider account with email " + e.Email + " already exists"
}

// RegisterProvider creates a new provider account and returns a fresh auth token.
func (s *DefaultProviderService) RegisterProvider(ctx context.Context, p models.Provider) (*AuthResponse, error) {
	if p.Email == "" || p.Password == "" || p.BusinessName == "" {
		return nil, fmt.Errorf("business name, email and password are required")
	}

	existing, err := s.Repo.GetByEmail(p.Email)
	if err != nil {
		utils.GetLogger().Error("RegisterProvider: lookup failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, DuplicateEmailError{Email: p.Email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p.ID = uuid.New().String()
	p.Password = ""
	p.PasswordHash = string(hash)
	if p.LocationGeo.Type == "" {
		p.LocationGeo = models.GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	token, err := utils.GenerateToken(p.ID, p.Email, "provider", tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("registration failed, please try again")
	}
	p.TokenHash = utils.HashToken(token)

	if err := s.Repo.Create(&p); err != nil {
		utils.GetLogger().Error("RegisterProvider: insert failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return &AuthResponse{
		ID:           p.ID,
		BusinessName: p.BusinessName,
		Email:        p.Email,
		Token:        token,
	}, nil
}

// AuthenticateProvider verifies credentials and rotates the account's token.
func (s *DefaultProviderService) AuthenticateProvider(ctx context.Context, email, password string) (*AuthResponse, error) {
	rec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("AuthenticateProvider: failed to fetch provider", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if rec == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(rec.ID, rec.Email, "provider", tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.UpdateTokenHash(rec.ID, tokenHash); err != nil {
		utils.GetLogger().Error("AuthenticateProvider: failed to store token hash", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	cacheKey := utils.AuthCachePrefix + "provider:" + rec.ID
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("AuthenticateProvider: failed to clear token cache", zap.Error(err))
	}

	return &AuthResponse{
		ID:           rec.ID,
		BusinessName: rec.BusinessName,
		Email:        rec.Email,
		Token:        token,
	}, nil
}

// RevokeToken invalidates the provider's current token.
func (s *DefaultProviderService) RevokeToken(ctx context.Context, providerID string) error {
	if err := s.Repo.UpdateTokenHash(providerID, ""); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	cacheKey := utils.AuthCachePrefix + "provider:" + providerID
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("RevokeToken: failed to clear token cache", zap.Error(err))
	}
	return nil
}

func (s *DefaultProviderService) GetProviderByID(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("provider with id %s not found", id)
	}
	return p, nil
}

// UpdateProvider applies profile edits. Credentials and token state are
// managed by the auth flow and ignored here.
func (s *DefaultProviderService) UpdateProvider(ctx context.Context, p models.Provider) (*models.Provider, error) {
	existing, err := s.Repo.GetByID(p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("provider with id %s not found", p.ID)
	}

	if p.BusinessName != "" {
		existing.BusinessName = p.BusinessName
	}
	if p.PhoneNumber != "" {
		existing.PhoneNumber = p.PhoneNumber
	}
	if p.About != "" {
		existing.About = p.About
	}
	if p.ProfileImage != "" {
		existing.ProfileImage = p.ProfileImage
	}
	if p.Address != "" {
		existing.Address = p.Address
	}
	if len(p.LocationGeo.Coordinates) == 2 {
		existing.LocationGeo = models.GeoPoint{Type: "Point", Coordinates: p.LocationGeo.Coordinates}
	}
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = string(hash)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}
	return existing, nil
}

func (s *DefaultProviderService) UpdateFCMToken(ctx context.Context, providerID, token string) error {
	if err := s.Repo.UpdateFCMToken(providerID, token); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

func (s *DefaultProviderService) DeleteProvider(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	return nil
}
