// services/chat/chat_test.go
package chat

import (
	"context"
	"testing"

	"gatherly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	conversations []models.Conversation
	messages      []models.ChatMessage
}

func (f *fakeChatRepo) CreateConversation(c *models.Conversation) error {
	f.conversations = append(f.conversations, *c)
	return nil
}

func (f *fakeChatRepo) GetConversation(id string) (*models.Conversation, error) {
	for i := range f.conversations {
		if f.conversations[i].ID == id {
			c := f.conversations[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) FindConversation(listingID, userID string) (*models.Conversation, error) {
	for i := range f.conversations {
		if f.conversations[i].ListingID == listingID && f.conversations[i].UserID == userID {
			c := f.conversations[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) ListConversationsForUser(userID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) ListConversationsForProvider(providerID string) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.ProviderID == providerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) AppendMessage(m *models.ChatMessage) error {
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChatRepo) GetMessages(conversationID string, limit int64) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) MarkRead(conversationID, side string) error { return nil }

type fakeListingReader struct {
	listings map[string]models.Listing
}

func (f *fakeListingReader) Create(*models.Listing) error { return nil }
func (f *fakeListingReader) GetByID(id string) (*models.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
func (f *fakeListingReader) GetByProviderID(string) ([]models.Listing, error) { return nil, nil }
func (f *fakeListingReader) Update(*models.Listing) error                     { return nil }
func (f *fakeListingReader) Delete(string) error                              { return nil }
func (f *fakeListingReader) Search(models.ListingFilter) ([]models.Listing, error) {
	return nil, nil
}
func (f *fakeListingReader) UpdateSchedule(string, []models.ScheduleWindow, string, int) error {
	return nil
}
func (f *fakeListingReader) UpdateReviewAggregates(string, float64, int) error { return nil }
func (f *fakeListingReader) SetHotDeal(string, *models.HotDealRef) error       { return nil }

func newTestService() (*DefaultChatService, *fakeChatRepo) {
	repo := &fakeChatRepo{}
	listings := &fakeListingReader{listings: map[string]models.Listing{
		"l1": {ID: "l1", ProviderID: "prov-1", Title: "Riverside Hall"},
	}}
	return NewDefaultChatService(repo, listings, nil), repo
}

func TestSendMessage_OpensConversationOnce(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, "u1", models.SenderRoleUser, "", models.MessageSendInput{
		ListingID: "l1", Text: "Is Saturday free?",
	})
	require.NoError(t, err)
	require.Len(t, repo.conversations, 1)
	assert.Equal(t, "prov-1", repo.conversations[0].ProviderID)
	assert.Equal(t, repo.conversations[0].ID, msg.ConversationID)

	// Second message from the same user reuses the conversation.
	_, err = svc.SendMessage(ctx, "u1", models.SenderRoleUser, "", models.MessageSendInput{
		ListingID: "l1", Text: "Morning slot ideally.",
	})
	require.NoError(t, err)
	assert.Len(t, repo.conversations, 1)
	assert.Len(t, repo.messages, 2)
}

func TestSendMessage_ProviderReplyRequiresConversation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "prov-1", models.SenderRoleProvider, "", models.MessageSendInput{
		ListingID: "l1", Text: "hello",
	})
	assert.Error(t, err, "providers must not open conversations")

	first, err := svc.SendMessage(ctx, "u1", models.SenderRoleUser, "", models.MessageSendInput{
		ListingID: "l1", Text: "Is Saturday free?",
	})
	require.NoError(t, err)

	reply, err := svc.SendMessage(ctx, "prov-1", models.SenderRoleProvider, first.ConversationID, models.MessageSendInput{
		Text: "Yes, after 2pm.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SenderRoleProvider, reply.SenderRole)
	assert.Len(t, repo.messages, 2)
}

func TestConversationAccess_ParticipantsOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, "u1", models.SenderRoleUser, "", models.MessageSendInput{
		ListingID: "l1", Text: "Is Saturday free?",
	})
	require.NoError(t, err)

	_, err = svc.GetMessages(ctx, "u2", models.SenderRoleUser, first.ConversationID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.GetMessages(ctx, "prov-2", models.SenderRoleProvider, first.ConversationID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.GetMessages(ctx, "prov-1", models.SenderRoleProvider, first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSendMessage_RejectsEmptyText(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SendMessage(context.Background(), "u1", models.SenderRoleUser, "", models.MessageSendInput{
		ListingID: "l1", Text: "   ",
	})
	assert.Error(t, err)
}
