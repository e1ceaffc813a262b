package chat

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService handles buyer to seller messaging: thread lifecycle,
// message delivery and read tracking.
type ChatService struct {
	convRepo    chat.ConversationRepository
	msgRepo     chat.MessageRepository
	userRepo    identity.UserRepository
	listingRepo catalog.ListingRepository
	logger      *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	convRepo chat.ConversationRepository,
	msgRepo chat.MessageRepository,
	userRepo identity.UserRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// StartConversation opens a thread with another user and posts the
// opening message. An existing thread between the pair about the same
// listing is reused instead of duplicated.
func (s *ChatService) StartConversation(ctx context.Context, userID uuid.UUID, req *StartConversationRequest) (*StartConversationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RECIPIENT_NOT_FOUND", "Recipient not found")
		}
		return nil, err
	}
	if req.ListingID != nil {
		if _, err := s.listingRepo.FindByID(ctx, *req.ListingID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
			}
			return nil, err
		}
	}

	conv, err := s.convRepo.FindBetween(ctx, userID, req.RecipientID, req.ListingID)
	if errors.Is(err, shared.ErrNotFound) {
		conv, err = chat.NewConversation(userID, req.RecipientID, req.ListingID)
		if err != nil {
			return nil, err
		}
		if err := s.convRepo.Create(ctx, conv); err != nil {
			return nil, err
		}
		s.logger.Info("conversation started",
			zap.String("conversation_id", conv.ID.String()),
			zap.String("starter_id", userID.String()))
	} else if err != nil {
		return nil, err
	}

	msg, err := s.post(ctx, conv, userID, req.Message, nil)
	if err != nil {
		return nil, err
	}

	return &StartConversationResponse{
		Conversation: s.enrich(ctx, conv, userID),
		Message:      ToMessageResponse(msg),
	}, nil
}

// SendMessage posts a message into a thread the caller belongs to
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, req *SendMessageRequest) (*MessageResponse, error) {
	conv, err := s.requireParticipant(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if req.ReplyToID != nil {
		parent, err := s.msgRepo.FindByID(ctx, *req.ReplyToID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("REPLY_NOT_FOUND", "Message being replied to not found")
			}
			return nil, err
		}
		if parent.ConversationID != conversationID {
			return nil, shared.NewDomainError("REPLY_WRONG_THREAD", "Cannot reply across conversations")
		}
	}

	msg, err := s.post(ctx, conv, userID, req.Content, req.ReplyToID)
	if err != nil {
		return nil, err
	}

	resp := ToMessageResponse(msg)
	return &resp, nil
}

// post writes the message, stamps thread activity and records the
// delivery event on the message so it reaches the outbox
func (s *ChatService) post(ctx context.Context, conv *chat.Conversation, senderID uuid.UUID, content string, replyToID *uuid.UUID) (*chat.Message, error) {
	msg, err := chat.NewMessage(conv.ID, senderID, content, replyToID)
	if err != nil {
		return nil, err
	}
	msg.AddDomainEvent(chat.NewMessageSentEvent(msg, conv))

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	conv.Touch(time.Now())
	if err := s.convRepo.Update(ctx, conv); err != nil {
		s.logger.Warn("failed to stamp thread activity",
			zap.String("conversation_id", conv.ID.String()),
			zap.Error(err))
	}

	return msg, nil
}

// ListConversations pages through the caller's chat inbox
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, query *ConversationListQuery) (*ConversationListResponse, error) {
	conversations, total, err := s.convRepo.FindByUser(ctx, userID, query.IncludeArchived, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]ConversationResponse, len(conversations))
	for i, conv := range conversations {
		responses[i] = s.enrich(ctx, conv, userID)
	}
	return &ConversationListResponse{
		Conversations: responses,
		Total:         total,
		Page:          query.Page,
		PageSize:      query.PageSize,
	}, nil
}

// enrich fills the viewer-dependent fields of a thread summary.
// Lookup failures degrade the summary instead of failing the list.
func (s *ChatService) enrich(ctx context.Context, conv *chat.Conversation, viewerID uuid.UUID) ConversationResponse {
	resp := ToConversationResponse(conv, viewerID)

	if other, err := s.userRepo.FindByID(ctx, resp.OtherUserID); err == nil {
		resp.OtherUsername = other.Username
	}
	if unread, err := s.msgRepo.CountUnreadInConversation(ctx, conv.ID, viewerID); err == nil {
		resp.UnreadCount = unread
	}
	return resp
}

// GetMessages returns a page of a thread, oldest first
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID, query *MessageListQuery) (*MessageListResponse, error) {
	if _, err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, total, err := s.msgRepo.FindByConversation(ctx, conversationID, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = ToMessageResponse(m)
	}
	return &MessageListResponse{
		ConversationID: conversationID,
		Messages:       responses,
		Total:          total,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}, nil
}

// MarkRead marks everything the other party sent in a thread as read
// and returns how many messages that was
func (s *ChatService) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	if _, err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	return s.msgRepo.MarkConversationRead(ctx, conversationID, userID)
}

// UnreadCount returns the caller's unread message badge across threads
func (s *ChatService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.msgRepo.CountUnreadForUser(ctx, userID)
}

// DeleteMessage soft-deletes one of the caller's own messages
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
		}
		return err
	}
	if !msg.IsFrom(userID) {
		return shared.NewDomainError("NOT_MESSAGE_SENDER", "You can only delete your own messages")
	}

	msg.Delete()
	return s.msgRepo.Update(ctx, msg)
}

// PinMessage highlights a message for both participants
func (s *ChatService) PinMessage(ctx context.Context, userID, messageID uuid.UUID) (*MessageResponse, error) {
	msg, err := s.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
		}
		return nil, err
	}
	if _, err := s.requireParticipant(ctx, userID, msg.ConversationID); err != nil {
		return nil, err
	}

	if err := msg.Pin(); err != nil {
		return nil, err
	}
	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	resp := ToMessageResponse(msg)
	return &resp, nil
}

// UnpinMessage removes the highlight
func (s *ChatService) UnpinMessage(ctx context.Context, userID, messageID uuid.UUID) (*MessageResponse, error) {
	msg, err := s.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
		}
		return nil, err
	}
	if _, err := s.requireParticipant(ctx, userID, msg.ConversationID); err != nil {
		return nil, err
	}

	msg.Unpin()
	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	resp := ToMessageResponse(msg)
	return &resp, nil
}

// Archive hides a thread from the caller's inbox
func (s *ChatService) Archive(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.requireParticipant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	conv.Archive()
	return s.convRepo.Update(ctx, conv)
}

// Unarchive returns a thread to the caller's inbox
func (s *ChatService) Unarchive(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.requireParticipant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	conv.Unarchive()
	return s.convRepo.Update(ctx, conv)
}

// Mute silences new message notifications for a thread
func (s *ChatService) Mute(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.requireParticipant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	conv.Mute()
	return s.convRepo.Update(ctx, conv)
}

// Unmute restores new message notifications for a thread
func (s *ChatService) Unmute(ctx context.Context, userID, conversationID uuid.UUID) error {
	conv, err := s.requireParticipant(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	conv.Unmute()
	return s.convRepo.Update(ctx, conv)
}

func (s *ChatService) requireParticipant(ctx context.Context, userID, conversationID uuid.UUID) (*chat.Conversation, error) {
	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, shared.NewDomainError("NOT_CONVERSATION_PARTY", "You are not part of this conversation")
	}
	return conv, nil
}
