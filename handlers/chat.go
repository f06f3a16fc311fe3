// handlers/chat.go
package handlers

import (
	"net/http"

	"gatherly/models"
	"gatherly/services/chat"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes messaging endpoints for both roles. The auth middleware
// on the route group determines the caller's side.
type ChatHandler struct {
	ChatService chat.ChatService
}

func chatCaller(c *gin.Context) (id, role string, ok bool) {
	if v, exists := c.Get("userID"); exists {
		return v.(string), models.SenderRoleUser, true
	}
	if v, exists := c.Get("providerID"); exists {
		return v.(string), models.SenderRoleProvider, true
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	return "", "", false
}

// SendHandler handles POST /api/chat/conversations (open + first message)
// and POST /api/chat/conversations/:id/messages (reply).
func (h *ChatHandler) SendHandler(c *gin.Context) {
	senderID, role, ok := chatCaller(c)
	if !ok {
		return
	}
	var req models.MessageSendInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	msg, err := h.ChatService.SendMessage(c.Request.Context(), senderID, role, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListHandler handles GET /api/chat/conversations.
func (h *ChatHandler) ListHandler(c *gin.Context) {
	callerID, role, ok := chatCaller(c)
	if !ok {
		return
	}
	convs, err := h.ChatService.ListConversations(c.Request.Context(), callerID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// MessagesHandler handles GET /api/chat/conversations/:id/messages.
func (h *ChatHandler) MessagesHandler(c *gin.Context) {
	callerID, role, ok := chatCaller(c)
	if !ok {
		return
	}
	msgs, err := h.ChatService.GetMessages(c.Request.Context(), callerID, role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// MarkReadHandler handles PUT /api/chat/conversations/:id/read.
func (h *ChatHandler) MarkReadHandler(c *gin.Context) {
	callerID, role, ok := chatCaller(c)
	if !ok {
		return
	}
	if err := h.ChatService.MarkRead(c.Request.Context(), callerID, role, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked read"})
}
