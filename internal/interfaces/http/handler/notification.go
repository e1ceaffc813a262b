package handler

import (
	notificationapp "github.com/baysoko/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List pages through the caller's notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query notificationapp.NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), userID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	result, err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkAllRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "All notifications marked as read"})
}
