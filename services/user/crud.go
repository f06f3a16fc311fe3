// services/user/crud.go
package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gatherly/models"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", id)
	}
	return u, nil
}

// UpdateUser applies profile edits. Credentials and token state are managed
// by the auth flow and ignored here.
func (s *DefaultUserService) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	existing, err := s.Repo.GetByID(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("user with id %s not found", u.ID)
	}

	if u.Name != "" {
		existing.Name = u.Name
	}
	if u.PhoneNumber != "" {
		existing.PhoneNumber = u.PhoneNumber
	}
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = string(hash)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return existing, nil
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if err := s.Repo.UpdateFCMToken(userID, token); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

func (s *DefaultUserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
