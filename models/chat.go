// models/chat.go
package models

import "time"

// Conversation links a consumer and a provider around one listing.
type Conversation struct {
	ID         string    `bson:"id" json:"id"`
	ListingID  string    `bson:"listingId" json:"listingId"`
	UserID     string    `bson:"userId" json:"userId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	LastText   string    `bson:"lastText,omitempty" json:"lastText,omitempty"`
	LastAt     time.Time `bson:"lastAt" json:"lastAt"`

	// Unread counters per side, reset when the side reads the conversation.
	UnreadUser     int `bson:"unreadUser" json:"unreadUser"`
	UnreadProvider int `bson:"unreadProvider" json:"unreadProvider"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Chat message sender roles.
const (
	SenderRoleUser     = "user"
	SenderRoleProvider = "provider"
)

// ChatMessage is one message inside a conversation.
type ChatMessage struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversationId" json:"conversationId"`
	SenderRole     string    `bson:"senderRole" json:"senderRole"`
	SenderID       string    `bson:"senderId" json:"senderId"`
	Text           string    `bson:"text" json:"text"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// MessageSendInput is the payload for appending a message.
type MessageSendInput struct {
	ListingID string `json:"listingId,omitempty"` // required when opening a new conversation
	Text      string `json:"text" binding:"required"`
}
