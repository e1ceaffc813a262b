package notification

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies what the notification is about
type Type string

const (
	TypeOrderPaid       Type = "order_paid"
	TypeOrderShipped    Type = "order_shipped"
	TypeOrderDelivered  Type = "order_delivered"
	TypeOrderCancelled  Type = "order_cancelled"
	TypeDeliveryUpdate  Type = "delivery_update"
	TypePaymentReceived Type = "payment_received"
	TypePaymentFailed   Type = "payment_failed"
	TypeEscrowReleased  Type = "escrow_released"
	TypeTrialExpiring   Type = "trial_expiring"
	TypeTrialExpired    Type = "trial_expired"
	TypeSubscriptionEnd Type = "subscription_ended"
	TypeLowStock        Type = "low_stock"
	TypeNewReview       Type = "new_review"
	TypeNewMessage      Type = "new_message"
	TypeSystem          Type = "system"
)

// Notification is one in-app message for a user
type Notification struct {
	shared.BaseAggregateRoot
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_user_read"`
	Type    Type       `gorm:"type:varchar(50);not null"`
	Title   string     `gorm:"type:varchar(200);not null"`
	Message string     `gorm:"type:text;not null"`
	Read    bool       `gorm:"not null;default:false;index:idx_notification_user_read"`
	ReadAt  *time.Time ``
	Data    []byte     `gorm:"type:jsonb"` // Contextual payload, e.g. order or listing IDs
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification for a user
func NewNotification(userID uuid.UUID, notificationType Type, title, message string, data []byte) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if notificationType == "" {
		return nil, shared.NewDomainError("INVALID_TYPE", "Notification type cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Type:              notificationType,
		Title:             title,
		Message:           message,
		Data:              data,
	}, nil
}

// MarkRead marks the notification as seen. Idempotent.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}

// IsFor checks ownership before exposing or mutating
func (n *Notification) IsFor(userID uuid.UUID) bool {
	return n.UserID == userID
}
