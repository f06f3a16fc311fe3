// services/user/interface.go
package user

import (
	"context"

	userRepo "gatherly/database/repository/user"
	"gatherly/models"
)

// AuthResponse is returned on successful registration or sign in.
type AuthResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Token       string `json:"token"`
}

// UserService defines account operations for platform consumers.
type UserService interface {
	RegisterUser(ctx context.Context, u models.User) (*AuthResponse, error)
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error)
	RevokeToken(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	DeleteUser(ctx context.Context, id string) error
}

// DefaultUserService is the production implementation of UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewDefaultUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}
