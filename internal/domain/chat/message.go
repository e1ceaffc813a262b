package chat

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxMessageLength caps one chat message
const MaxMessageLength = 2000

// Message is one entry in a conversation. Deleting is soft: the row
// stays so replies keep their anchor, but the content is blanked.
type Message struct {
	shared.BaseAggregateRoot
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_message_conversation"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content        string     `gorm:"type:text;not null"`
	Read           bool       `gorm:"not null;default:false"`
	ReadAt         *time.Time ``
	Deleted        bool       `gorm:"not null;default:false"`
	Pinned         bool       `gorm:"not null;default:false"`
	ReplyToID      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "chat_messages"
}

// NewMessage creates an unread message in a conversation. replyToID
// is nil unless the message answers an earlier one.
func NewMessage(conversationID, senderID uuid.UUID, content string, replyToID *uuid.UUID) (*Message, error) {
	if conversationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONVERSATION_ID", "Conversation ID cannot be empty")
	}
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SENDER_ID", "Sender ID cannot be empty")
	}
	if content == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message cannot be empty")
	}
	if len(content) > MaxMessageLength {
		return nil, shared.NewDomainError("MESSAGE_TOO_LONG", "Message cannot exceed 2000 characters")
	}

	return &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ConversationID:    conversationID,
		SenderID:          senderID,
		Content:           content,
		ReplyToID:         replyToID,
	}, nil
}

// MarkRead marks the message as seen by the recipient. Idempotent.
func (m *Message) MarkRead() {
	if m.Read {
		return
	}
	now := time.Now()
	m.Read = true
	m.ReadAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
}

// Delete blanks the message. Only the sender may do this; the service
// layer enforces that before calling.
func (m *Message) Delete() {
	if m.Deleted {
		return
	}
	m.Deleted = true
	m.Content = ""
	m.Pinned = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// Pin highlights the message in the thread
func (m *Message) Pin() error {
	if m.Deleted {
		return shared.NewDomainError("MESSAGE_DELETED", "Cannot pin a deleted message")
	}
	if m.Pinned {
		return nil
	}
	m.Pinned = true
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Unpin removes the highlight
func (m *Message) Unpin() {
	if !m.Pinned {
		return
	}
	m.Pinned = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// IsFrom checks whether the message was sent by the given user
func (m *Message) IsFrom(userID uuid.UUID) bool {
	return m.SenderID == userID
}
