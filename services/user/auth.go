// services/user/auth.go
package user

import (
	"context"
	"fmt"
	"time"

	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gatherly/models"
)

const tokenValidity = 72 * time.Hour

// RegisterUser creates a new account and returns a fresh auth token.
func (s *DefaultUserService) RegisterUser(ctx context.Context, u models.User) (*AuthResponse, error) {
	if u.Email == "" || u.Password == "" || u.Name == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	existing, err := s.Repo.GetByEmail(u.Email)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: lookup failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, DuplicateEmailError{Email: u.Email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u.ID = uuid.New().String()
	u.Password = ""
	u.PasswordHash = string(hash)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	token, err := utils.GenerateToken(u.ID, u.Email, "user", tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("registration failed, please try again")
	}
	u.TokenHash = utils.HashToken(token)

	if err := s.Repo.Create(&u); err != nil {
		utils.GetLogger().Error("RegisterUser: insert failed", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return &AuthResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Token:       token,
	}, nil
}

// AuthenticateUser verifies credentials and rotates the account's token.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	rec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if rec == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(rec.ID, rec.Email, "user", tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.UpdateTokenHash(rec.ID, tokenHash); err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to store token hash", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	// Drop any cached hash so the old token stops validating immediately.
	cacheKey := utils.AuthCachePrefix + "user:" + rec.ID
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("AuthenticateUser: failed to clear token cache", zap.Error(err))
	}

	return &AuthResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Email:       rec.Email,
		PhoneNumber: rec.PhoneNumber,
		Token:       token,
	}, nil
}

// RevokeToken invalidates the account's current token (sign out everywhere).
func (s *DefaultUserService) RevokeToken(ctx context.Context, userID string) error {
	if err := s.Repo.UpdateTokenHash(userID, ""); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	cacheKey := utils.AuthCachePrefix + "user:" + userID
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("RevokeToken: failed to clear token cache", zap.Error(err))
	}
	return nil
}
