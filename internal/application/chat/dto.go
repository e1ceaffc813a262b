package chat

import (
	"time"

	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/google/uuid"
)

// StartConversationRequest opens (or reuses) a thread with another user
type StartConversationRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	ListingID   *uuid.UUID `json:"listing_id"`
	Message     string     `json:"message" binding:"required,max=2000"`
}

// SendMessageRequest posts one message into a thread
type SendMessageRequest struct {
	Content   string     `json:"content" binding:"required,max=2000"`
	ReplyToID *uuid.UUID `json:"reply_to_id"`
}

// ConversationListQuery represents pagination for the chat inbox
type ConversationListQuery struct {
	IncludeArchived bool `form:"include_archived"`
	Page            int  `form:"page,default=1" binding:"min=1"`
	PageSize        int  `form:"page_size,default=20" binding:"min=1,max=100"`
}

// MessageListQuery represents pagination within a thread
type MessageListQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=50" binding:"min=1,max=100"`
}

// ConversationResponse represents a thread in API responses
type ConversationResponse struct {
	ID            uuid.UUID  `json:"id"`
	OtherUserID   uuid.UUID  `json:"other_user_id"`
	OtherUsername string     `json:"other_username,omitempty"`
	ListingID     *uuid.UUID `json:"listing_id,omitempty"`
	Archived      bool       `json:"archived"`
	Muted         bool       `json:"muted"`
	UnreadCount   int64      `json:"unread_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationListResponse is a page of the chat inbox
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Content   string     `json:"content"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	Deleted   bool       `json:"deleted"`
	Pinned    bool       `json:"pinned"`
	ReplyToID *uuid.UUID `json:"reply_to_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MessageListResponse is a page of one thread, oldest first
type MessageListResponse struct {
	ConversationID uuid.UUID         `json:"conversation_id"`
	Messages       []MessageResponse `json:"messages"`
	Total          int64             `json:"total"`
	Page           int               `json:"page"`
	PageSize       int               `json:"page_size"`
}

// StartConversationResponse returns the thread and its opening message
type StartConversationResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Message      MessageResponse      `json:"message"`
}

// ToMessageResponse converts a message to its API representation
func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Read:      m.Read,
		ReadAt:    m.ReadAt,
		Deleted:   m.Deleted,
		Pinned:    m.Pinned,
		ReplyToID: m.ReplyToID,
		CreatedAt: m.CreatedAt,
	}
}

// ToConversationResponse converts a thread to the caller's view of it
func ToConversationResponse(c *chat.Conversation, viewerID uuid.UUID) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		OtherUserID:   c.OtherParticipant(viewerID),
		ListingID:     c.ListingID,
		Archived:      c.Archived,
		Muted:         c.Muted,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}
