package handler

import (
	"context"

	chatapp "github.com/baysoko/backend/internal/application/chat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles buyer to seller messaging endpoints
type ChatHandler struct {
	BaseHandler
	chatService *chatapp.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chatapp.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Start opens a thread with another user, reusing an existing one
func (h *ChatHandler) Start(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req chatapp.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.chatService.StartConversation(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List pages through the caller's chat inbox
func (h *ChatHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query chatapp.ConversationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.chatService.ListConversations(c.Request.Context(), userID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UnreadCount returns the caller's unread message badge
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.chatService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Messages returns a page of one thread, oldest first
func (h *ChatHandler) Messages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	var query chatapp.MessageListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.chatService.GetMessages(c.Request.Context(), userID, conversationID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Send posts a message into a thread
func (h *ChatHandler) Send(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	var req chatapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), userID, conversationID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// MarkRead marks everything the other party sent as read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	marked, err := h.chatService.MarkRead(c.Request.Context(), userID, conversationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"marked": marked})
}

// Archive hides a thread from the inbox
func (h *ChatHandler) Archive(c *gin.Context) {
	h.updateThread(c, h.chatService.Archive)
}

// Unarchive returns a thread to the inbox
func (h *ChatHandler) Unarchive(c *gin.Context) {
	h.updateThread(c, h.chatService.Unarchive)
}

// Mute silences a thread's notifications
func (h *ChatHandler) Mute(c *gin.Context) {
	h.updateThread(c, h.chatService.Mute)
}

// Unmute restores a thread's notifications
func (h *ChatHandler) Unmute(c *gin.Context) {
	h.updateThread(c, h.chatService.Unmute)
}

// DeleteMessage soft-deletes one of the caller's own messages
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	if err := h.chatService.DeleteMessage(c.Request.Context(), userID, messageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PinMessage highlights a message for both participants
func (h *ChatHandler) PinMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	result, err := h.chatService.PinMessage(c.Request.Context(), userID, messageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UnpinMessage removes a message highlight
func (h *ChatHandler) UnpinMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	result, err := h.chatService.UnpinMessage(c.Request.Context(), userID, messageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ChatHandler) updateThread(c *gin.Context, op func(ctx context.Context, userID, conversationID uuid.UUID) error) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	if err := op(c.Request.Context(), userID, conversationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
