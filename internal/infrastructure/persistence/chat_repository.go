package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormConversationRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new conversation
func (r *GormConversationRepository) Create(ctx context.Context, conv *chat.Conversation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &conv.BaseAggregateRoot)
	})
}

// Update updates an existing conversation
func (r *GormConversationRepository) Update(ctx context.Context, conv *chat.Conversation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(conv).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &conv.BaseAggregateRoot)
	})
}

func (r *GormConversationRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if r.outboxSaver != nil {
		if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
			return err
		}
	}
	agg.ClearDomainEvents()
	return nil
}

// FindByID finds a conversation by ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindBetween finds the thread between two users about a listing, in
// either direction
func (r *GormConversationRepository) FindBetween(ctx context.Context, userA, userB uuid.UUID, listingID *uuid.UUID) (*chat.Conversation, error) {
	query := r.db.WithContext(ctx).
		Where("(starter_id = ? AND recipient_id = ?) OR (starter_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA)
	if listingID != nil {
		query = query.Where("listing_id = ?", *listingID)
	} else {
		query = query.Where("listing_id IS NULL")
	}

	var conv chat.Conversation
	if err := query.First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindByUser finds a user's threads, latest activity first
func (r *GormConversationRepository) FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, page, pageSize int) ([]*chat.Conversation, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("starter_id = ? OR recipient_id = ?", userID, userID)
	if !includeArchived {
		query = query.Where("archived = false")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var conversations []*chat.Conversation
	err := query.
		Order("COALESCE(last_message_at, created_at) DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&conversations).Error
	if err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormMessageRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new message
func (r *GormMessageRepository) Create(ctx context.Context, msg *chat.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &msg.BaseAggregateRoot)
	})
}

// Update updates an existing message
func (r *GormMessageRepository) Update(ctx context.Context, msg *chat.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(msg).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &msg.BaseAggregateRoot)
	})
}

func (r *GormMessageRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if r.outboxSaver != nil {
		if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
			return err
		}
	}
	agg.ClearDomainEvents()
	return nil
}

// FindByID finds a message by ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var msg chat.Message
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// FindByConversation finds a page of a thread's messages, oldest first
func (r *GormMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]*chat.Message, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	var messages []*chat.Message
	err := query.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// CountUnreadInConversation counts messages in a thread not yet read
// and not sent by the given user
func (r *GormMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ? AND read = false AND deleted = false AND sender_id <> ?", conversationID, userID).
		Count(&count).Error
	return count, err
}

// CountUnreadForUser counts unread messages addressed to the user
// across all their threads
func (r *GormMessageRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Joins("JOIN conversations ON conversations.id = chat_messages.conversation_id").
		Where("chat_messages.read = false AND chat_messages.deleted = false AND chat_messages.sender_id <> ?", userID).
		Where("conversations.starter_id = ? OR conversations.recipient_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

// MarkConversationRead marks every unread message in a thread not sent
// by the reader as read
func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ? AND read = false AND sender_id <> ?", conversationID, readerID).
		Updates(map[string]any{
			"read":    true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
