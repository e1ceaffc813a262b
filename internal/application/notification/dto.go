package notification

import (
	"encoding/json"
	"time"

	"github.com/baysoko/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationListQuery represents pagination for the inbox
type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page,default=1" binding:"min=1"`
	PageSize   int  `form:"page_size,default=20" binding:"min=1,max=100"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Read      bool            `json:"read"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationListResponse is a page of the user's inbox
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// ToNotificationResponse converts a notification to its API representation
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		Data:      json.RawMessage(n.Data),
		CreatedAt: n.CreatedAt,
	}
}
