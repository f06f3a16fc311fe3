package chatRepo

import (
	"context"
	"fmt"
	"time"

	"gatherly/database"
	"gatherly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoChatRepo creates a new instance of ChatRepository using MongoDB.
func NewMongoChatRepo() ChatRepository {
	db := database.DB()
	repo := &MongoChatRepo{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("messages"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoChatRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	convIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "listingId", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "lastAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "lastAt", Value: -1}}},
	}
	if _, err := r.convColl.Indexes().CreateMany(ctx, convIndexes); err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}

	msgIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.msgColl.Indexes().CreateMany(ctx, msgIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) CreateConversation(conversation *models.Conversation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.convColl.InsertOne(ctx, conversation); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) GetConversation(id string) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var conv models.Conversation
	if err := r.convColl.FindOne(ctx, bson.M{"id": id}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch conversation %s: %w", id, err)
	}
	return &conv, nil
}

func (r *MongoChatRepo) FindConversation(listingID, userID string) (*models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var conv models.Conversation
	err := r.convColl.FindOne(ctx, bson.M{"listingId": listingID, "userId": userID}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

func (r *MongoChatRepo) ListConversationsForUser(userID string) ([]models.Conversation, error) {
	return r.listConversations(bson.M{"userId": userID})
}

func (r *MongoChatRepo) ListConversationsForProvider(providerID string) ([]models.Conversation, error) {
	return r.listConversations(bson.M{"providerId": providerID})
}

func (r *MongoChatRepo) listConversations(filter bson.M) ([]models.Conversation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastAt", Value: -1}}).SetLimit(100)
	cursor, err := r.convColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return convs, nil
}

func (r *MongoChatRepo) AppendMessage(message *models.ChatMessage) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.msgColl.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	// The counterparty's unread counter grows; the sender's stays put.
	unreadField := "unreadProvider"
	if message.SenderRole == models.SenderRoleProvider {
		unreadField = "unreadUser"
	}
	update := bson.M{
		"$set": bson.M{"lastText": message.Text, "lastAt": message.CreatedAt},
		"$inc": bson.M{unreadField: 1},
	}
	if _, err := r.convColl.UpdateOne(ctx, bson.M{"id": message.ConversationID}, update); err != nil {
		return fmt.Errorf("failed to update conversation snapshot: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) GetMessages(conversationID string, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.msgColl.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *MongoChatRepo) MarkRead(conversationID, side string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	field := "unreadUser"
	if side == models.SenderRoleProvider {
		field = "unreadProvider"
	}
	_, err := r.convColl.UpdateOne(ctx, bson.M{"id": conversationID}, bson.M{
		"$set": bson.M{field: 0},
	})
	if err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return nil
}
