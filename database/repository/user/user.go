package userRepo

import "gatherly/models"

// UserRepository defines persistence operations for consumer accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateTokenHash(id, tokenHash string) error
	UpdateFCMToken(id, fcmToken string) error
	Delete(id string) error
}
