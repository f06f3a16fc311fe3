// services/chat/chat.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	chatRepo "gatherly/database/repository/chat"
	listingRepo "gatherly/database/repository/listing"
	"gatherly/models"
	"gatherly/services/notification"
	"gatherly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotParticipant is returned when the caller is on neither side of the
// conversation.
var ErrNotParticipant = errors.New("not a participant of this conversation")

// ChatService defines messaging between consumers and providers.
type ChatService interface {
	// SendMessage appends to the conversation between the sender and the
	// listing's provider, opening it on first contact.
	SendMessage(ctx context.Context, senderID, senderRole, conversationID string, in models.MessageSendInput) (*models.ChatMessage, error)
	GetMessages(ctx context.Context, callerID, callerRole, conversationID string) ([]models.ChatMessage, error)
	ListConversations(ctx context.Context, callerID, callerRole string) ([]models.Conversation, error)
	MarkRead(ctx context.Context, callerID, callerRole, conversationID string) error
}

// DefaultChatService is the production implementation of ChatService.
type DefaultChatService struct {
	Repo            chatRepo.ChatRepository
	Listings        listingRepo.ListingRepository
	NotificationSvc notification.NotificationService
}

func NewDefaultChatService(repo chatRepo.ChatRepository, listings listingRepo.ListingRepository, notificationSvc notification.NotificationService) *DefaultChatService {
	return &DefaultChatService{Repo: repo, Listings: listings, NotificationSvc: notificationSvc}
}

func (s *DefaultChatService) SendMessage(ctx context.Context, senderID, senderRole, conversationID string, in models.MessageSendInput) (*models.ChatMessage, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	var conv *models.Conversation
	var err error
	if conversationID != "" {
		conv, err = s.authorized(senderID, senderRole, conversationID)
		if err != nil {
			return nil, err
		}
	} else {
		if senderRole != models.SenderRoleUser {
			return nil, fmt.Errorf("providers reply inside existing conversations")
		}
		conv, err = s.openConversation(ctx, senderID, in.ListingID)
		if err != nil {
			return nil, err
		}
	}

	msg := &models.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderRole:     senderRole,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.AppendMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.notifyCounterparty(conv, senderRole, text)
	return msg, nil
}

func (s *DefaultChatService) GetMessages(ctx context.Context, callerID, callerRole, conversationID string) ([]models.ChatMessage, error) {
	if _, err := s.authorized(callerID, callerRole, conversationID); err != nil {
		return nil, err
	}
	return s.Repo.GetMessages(conversationID, 200)
}

func (s *DefaultChatService) ListConversations(ctx context.Context, callerID, callerRole string) ([]models.Conversation, error) {
	if callerRole == models.SenderRoleProvider {
		return s.Repo.ListConversationsForProvider(callerID)
	}
	return s.Repo.ListConversationsForUser(callerID)
}

func (s *DefaultChatService) MarkRead(ctx context.Context, callerID, callerRole, conversationID string) error {
	if _, err := s.authorized(callerID, callerRole, conversationID); err != nil {
		return err
	}
	return s.Repo.MarkRead(conversationID, callerRole)
}

// openConversation finds or creates the conversation between a user and a
// listing's provider.
func (s *DefaultChatService) openConversation(ctx context.Context, userID, listingID string) (*models.Conversation, error) {
	if listingID == "" {
		return nil, fmt.Errorf("listingId is required to start a conversation")
	}
	existing, err := s.Repo.FindConversation(listingID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	listing, err := s.Listings.GetByID(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s not found", listingID)
	}

	conv := &models.Conversation{
		ID:         uuid.New().String(),
		ListingID:  listingID,
		UserID:     userID,
		ProviderID: listing.ProviderID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.CreateConversation(conv); err != nil {
		return nil, fmt.Errorf("failed to open conversation: %w", err)
	}
	return conv, nil
}

func (s *DefaultChatService) authorized(callerID, callerRole, conversationID string) (*models.Conversation, error) {
	conv, err := s.Repo.GetConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s not found", conversationID)
	}
	switch callerRole {
	case models.SenderRoleUser:
		if conv.UserID != callerID {
			return nil, ErrNotParticipant
		}
	case models.SenderRoleProvider:
		if conv.ProviderID != callerID {
			return nil, ErrNotParticipant
		}
	default:
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (s *DefaultChatService) notifyCounterparty(conv *models.Conversation, senderRole, text string) {
	if s.NotificationSvc == nil {
		return
	}
	preview := text
	if len(preview) > 80 {
		preview = preview[:77] + "..."
	}
	data := map[string]string{"conversationId": conv.ID}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var err error
		if senderRole == models.SenderRoleUser {
			err = s.NotificationSvc.SendProviderPush(ctx, conv.ProviderID, "New message", preview, data)
		} else {
			err = s.NotificationSvc.SendUserPush(ctx, conv.UserID, "New message", preview, data)
		}
		if err != nil {
			utils.GetLogger().Debug("chat push failed", zap.Error(err))
		}
	}()
}
