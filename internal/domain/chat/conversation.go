package chat

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Conversation is a two-party message thread between a buyer and a
// seller, usually anchored to the listing that started it.
type Conversation struct {
	shared.BaseAggregateRoot
	StarterID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ListingID     *uuid.UUID `gorm:"type:uuid;index"`
	Archived      bool       `gorm:"not null;default:false"`
	Muted         bool       `gorm:"not null;default:false"`
	LastMessageAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation opens a thread between two users. listingID is nil
// for conversations not tied to a listing.
func NewConversation(starterID, recipientID uuid.UUID, listingID *uuid.UUID) (*Conversation, error) {
	if starterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STARTER_ID", "Starter ID cannot be empty")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_ID", "Recipient ID cannot be empty")
	}
	if starterID == recipientID {
		return nil, shared.NewDomainError("SELF_CONVERSATION", "You cannot start a conversation with yourself")
	}

	conv := &Conversation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StarterID:         starterID,
		RecipientID:       recipientID,
		ListingID:         listingID,
	}

	conv.AddDomainEvent(NewConversationStartedEvent(conv))

	return conv, nil
}

// HasParticipant checks whether a user belongs to the thread
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.StarterID == userID || c.RecipientID == userID
}

// OtherParticipant returns the counterpart of the given user
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.StarterID == userID {
		return c.RecipientID
	}
	return c.StarterID
}

// Touch records message activity. New activity pulls an archived
// thread back into the inbox.
func (c *Conversation) Touch(at time.Time) {
	c.LastMessageAt = &at
	c.Archived = false
	c.UpdatedAt = at
	c.IncrementVersion()
}

// Archive hides the thread from the inbox until new activity
func (c *Conversation) Archive() {
	if c.Archived {
		return
	}
	c.Archived = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Unarchive returns the thread to the inbox
func (c *Conversation) Unarchive() {
	if !c.Archived {
		return
	}
	c.Archived = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Mute silences new message notifications for the thread
func (c *Conversation) Mute() {
	if c.Muted {
		return
	}
	c.Muted = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Unmute restores new message notifications
func (c *Conversation) Unmute() {
	if !c.Muted {
		return
	}
	c.Muted = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
