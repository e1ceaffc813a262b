package chat

import (
	"context"

	"github.com/google/uuid"
)

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// Create creates a new conversation
	Create(ctx context.Context, conv *Conversation) error

	// Update updates an existing conversation
	Update(ctx context.Context, conv *Conversation) error

	// FindByID finds a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)

	// FindBetween finds the thread between two users about a listing,
	// in either direction. A nil listingID matches threads without one.
	FindBetween(ctx context.Context, userA, userB uuid.UUID, listingID *uuid.UUID) (*Conversation, error)

	// FindByUser finds a user's threads, latest activity first.
	// Archived threads are excluded unless includeArchived is set.
	FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, page, pageSize int) ([]*Conversation, int64, error)
}

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	// Create creates a new message
	Create(ctx context.Context, msg *Message) error

	// Update updates an existing message
	Update(ctx context.Context, msg *Message) error

	// FindByID finds a message by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// FindByConversation finds a page of a thread's messages, oldest first
	FindByConversation(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]*Message, int64, error)

	// CountUnreadInConversation counts messages in a thread not yet
	// read and not sent by the given user
	CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)

	// CountUnreadForUser counts unread messages addressed to the user
	// across all their threads
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkConversationRead marks every unread message in a thread not
	// sent by the reader as read
	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}
