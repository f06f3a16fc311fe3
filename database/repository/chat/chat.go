package chatRepo

import "gatherly/models"

// ChatRepository defines persistence operations for conversations and messages.
type ChatRepository interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversation(id string) (*models.Conversation, error)
	FindConversation(listingID, userID string) (*models.Conversation, error)
	ListConversationsForUser(userID string) ([]models.Conversation, error)
	ListConversationsForProvider(providerID string) ([]models.Conversation, error)

	// AppendMessage stores the message and updates the conversation's last
	// message snapshot and the counterparty's unread counter.
	AppendMessage(message *models.ChatMessage) error
	GetMessages(conversationID string, limit int64) ([]models.ChatMessage, error)

	// MarkRead resets the unread counter for the given side ("user" or
	// "provider").
	MarkRead(conversationID, side string) error
}
