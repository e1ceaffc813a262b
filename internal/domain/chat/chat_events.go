package chat

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate types for chat events
const (
	AggregateTypeConversation = "Conversation"
	AggregateTypeMessage      = "ChatMessage"
)

// Chat event types
const (
	EventTypeConversationStarted = "chat.conversation_started"
	EventTypeMessageSent         = "chat.message_sent"
)

// ConversationStartedEvent is published when a new thread opens
type ConversationStartedEvent struct {
	shared.BaseDomainEvent
	StarterID   uuid.UUID  `json:"starter_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	ListingID   *uuid.UUID `json:"listing_id,omitempty"`
}

// NewConversationStartedEvent creates a new conversation started event
func NewConversationStartedEvent(conv *Conversation) *ConversationStartedEvent {
	return &ConversationStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConversationStarted, AggregateTypeConversation, conv.ID),
		StarterID:       conv.StarterID,
		RecipientID:     conv.RecipientID,
		ListingID:       conv.ListingID,
	}
}

// MessageSentEvent is published when a message lands in a thread.
// Preview carries enough text for a notification without another
// round trip; Muted lets subscribers honor the thread's setting.
type MessageSentEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
	Preview        string    `json:"preview"`
	Muted          bool      `json:"muted"`
}

// previewLength caps the notification snippet
const previewLength = 80

// NewMessageSentEvent creates a new message sent event
func NewMessageSentEvent(msg *Message, conv *Conversation) *MessageSentEvent {
	preview := msg.Content
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageSent, AggregateTypeMessage, msg.ID),
		ConversationID:  msg.ConversationID,
		SenderID:        msg.SenderID,
		RecipientID:     conv.OtherParticipant(msg.SenderID),
		Preview:         preview,
		Muted:           conv.Muted,
	}
}
