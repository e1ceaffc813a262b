package notification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/baysoko/backend/internal/domain/notification"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultRetentionDays is how long read notifications are kept
const defaultRetentionDays = 90

// NotificationService manages the per-user in-app inbox
type NotificationService struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify drops one notification into a user's inbox. data is
// marshalled into the contextual payload; nil means no payload.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notificationType notification.Type, title, message string, data any) error {
	var payload []byte
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = encoded
	}

	n, err := notification.NewNotification(userID, notificationType, title, message, payload)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug("notification created",
		zap.String("user_id", userID.String()),
		zap.String("type", string(notificationType)))

	return nil
}

// List returns a page of the user's inbox with the unread badge count
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, query *NotificationListQuery) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.FindByUser(ctx, userID, query.UnreadOnly, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = ToNotificationResponse(n)
	}
	return &NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          query.Page,
		PageSize:      query.PageSize,
	}, nil
}

// UnreadCount returns the user's unread badge count
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as seen
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOTIFICATION_NOT_FOUND", "Notification not found")
		}
		return nil, err
	}
	if !n.IsFor(userID) {
		return nil, shared.NewDomainError("NOT_NOTIFICATION_OWNER", "Notification belongs to another user")
	}

	n.MarkRead()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead clears the user's unread badge
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Prune removes read notifications past the retention window
func (s *NotificationService) Prune(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = defaultRetentionDays
	}

	pruned, err := s.repo.DeleteOlderThan(ctx, days)
	if err != nil {
		return 0, err
	}

	if pruned > 0 {
		s.logger.Info("old notifications pruned", zap.Int64("count", pruned))
	}
	return pruned, nil
}
