package delivery

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxWebhookAttempts bounds outbound retries before giving up
const MaxWebhookAttempts = 5

// WebhookStatus tracks an outbound webhook delivery attempt
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusSent      WebhookStatus = "sent"
	WebhookStatusFailed    WebhookStatus = "failed"
	WebhookStatusExhausted WebhookStatus = "exhausted"
)

// WebhookLog records one outbound order event to the courier system,
// including every retry. One row per (order, event type) emission.
type WebhookLog struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	EventType      string        `gorm:"type:varchar(50);not null"`
	Payload        []byte        `gorm:"type:jsonb;not null"`
	Status         WebhookStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Attempts       int           `gorm:"not null;default:0"`
	ResponseStatus *int          ``
	ResponseBody   string        `gorm:"type:text"`
	ErrorMessage   string        `gorm:"type:text"`
	NextRetryAt    *time.Time    `gorm:"index"`
	SentAt         *time.Time    ``
}

// TableName returns the table name for GORM
func (WebhookLog) TableName() string {
	return "webhook_logs"
}

// NewWebhookLog queues an order event for outbound delivery
func NewWebhookLog(orderID uuid.UUID, eventType string, payload []byte) (*WebhookLog, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Event type cannot be empty")
	}
	if len(payload) == 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Payload cannot be empty")
	}

	return &WebhookLog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		EventType:         eventType,
		Payload:           payload,
		Status:            WebhookStatusPending,
	}, nil
}

// MarkSent records a successful delivery
func (w *WebhookLog) MarkSent(responseStatus int, responseBody string) {
	now := time.Now()
	w.Attempts++
	w.Status = WebhookStatusSent
	w.ResponseStatus = &responseStatus
	w.ResponseBody = responseBody
	w.ErrorMessage = ""
	w.NextRetryAt = nil
	w.SentAt = &now
	w.UpdatedAt = now
	w.IncrementVersion()
}

// MarkFailed records a failed attempt and schedules the next retry
// with exponential backoff. After MaxWebhookAttempts the log is
// exhausted and the scheduler stops picking it up.
func (w *WebhookLog) MarkFailed(responseStatus *int, errorMessage string) {
	now := time.Now()
	w.Attempts++
	w.ResponseStatus = responseStatus
	w.ErrorMessage = errorMessage

	if w.Attempts >= MaxWebhookAttempts {
		w.Status = WebhookStatusExhausted
		w.NextRetryAt = nil
	} else {
		w.Status = WebhookStatusFailed
		backoff := time.Duration(1<<uint(w.Attempts)) * time.Minute
		next := now.Add(backoff)
		w.NextRetryAt = &next
	}

	w.UpdatedAt = now
	w.IncrementVersion()
}

// DueForRetry reports whether the scheduler should attempt redelivery
func (w *WebhookLog) DueForRetry(now time.Time) bool {
	return w.Status == WebhookStatusFailed && w.NextRetryAt != nil && !now.Before(*w.NextRetryAt)
}

// Succeeded returns true once the webhook was acknowledged
func (w *WebhookLog) Succeeded() bool {
	return w.Status == WebhookStatusSent
}
