package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create creates a new notification
	Create(ctx context.Context, notification *Notification) error

	// Update updates an existing notification
	Update(ctx context.Context, notification *Notification) error

	// Delete removes a notification
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByUser finds a user's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*Notification, int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkAllRead marks every unread notification for a user as read
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// DeleteOlderThan prunes read notifications past a retention window
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
