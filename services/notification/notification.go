// services/notification/notification.go
package notification

import (
	"context"
	"fmt"

	providerRepo "gatherly/database/repository/provider"
	userRepo "gatherly/database/repository/user"
	"gatherly/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
// All sends are best effort: callers treat failures as log-worthy, never fatal.
type NotificationService interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendProviderPush(ctx context.Context, providerID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	UserRepo     userRepo.UserRepository
	ProviderRepo providerRepo.ProviderRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository, providers providerRepo.ProviderRepository) (*DefaultNotificationService, error) {
	if users == nil || providers == nil {
		return nil, fmt.Errorf("notification service initialization error: repository is nil")
	}
	return &DefaultNotificationService{UserRepo: users, ProviderRepo: providers}, nil
}

// SendUserPush looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("SendUserPush: could not find user %s: %w", userID, err)
	}
	if u == nil || u.FCMToken == "" {
		return fmt.Errorf("SendUserPush: user %s has no FCM token", userID)
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "user"
	}
	return s.send(ctx, u.FCMToken, title, body, data)
}

// SendProviderPush looks up a provider's FCM token and sends a push.
func (s *DefaultNotificationService) SendProviderPush(ctx context.Context, providerID, title, body string, data map[string]string) error {
	p, err := s.ProviderRepo.GetByID(providerID)
	if err != nil {
		return fmt.Errorf("SendProviderPush: could not find provider %s: %w", providerID, err)
	}
	if p == nil || p.FCMToken == "" {
		return fmt.Errorf("SendProviderPush: provider %s has no FCM token", providerID)
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "provider"
	}
	return s.send(ctx, p.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		// Push delivery is disabled when Firebase credentials are absent.
		utils.GetLogger().Debug("FCM client not initialised; dropping push", zap.String("title", title))
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("FCM push sent", zap.String("response", response))
	return nil
}
