package providerRepo

import "gatherly/models"

// ProviderRepository defines persistence operations for provider accounts.
type ProviderRepository interface {
	Create(provider *models.Provider) error
	GetByID(id string) (*models.Provider, error)
	GetByEmail(email string) (*models.Provider, error)
	Update(provider *models.Provider) error
	UpdateTokenHash(id, tokenHash string) error
	UpdateFCMToken(id, fcmToken string) error
	Delete(id string) error
}
