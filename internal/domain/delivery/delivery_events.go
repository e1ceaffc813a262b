package delivery

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeDeliveryRequest is the aggregate type for delivery events
const AggregateTypeDeliveryRequest = "DeliveryRequest"

// Delivery event types
const (
	EventTypeDeliveryRequestCreated = "delivery.created"
	EventTypeDeliveryStatusChanged  = "delivery.status_changed"
	EventTypeDeliveryCompleted      = "delivery.completed"
)

// DeliveryRequestCreatedEvent is published when a delivery is opened
// for an order
type DeliveryRequestCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewDeliveryRequestCreatedEvent creates a new delivery created event
func NewDeliveryRequestCreatedEvent(request *DeliveryRequest) *DeliveryRequestCreatedEvent {
	return &DeliveryRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryRequestCreated, AggregateTypeDeliveryRequest, request.ID),
		OrderID:         request.OrderID,
		TrackingNumber:  request.TrackingNumber,
	}
}

// DeliveryStatusChangedEvent is published on every lifecycle move.
// Order status updates and customer notifications hang off this event.
type DeliveryStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	OldStatus      string    `json:"old_status"`
	NewStatus      string    `json:"new_status"`
}

// NewDeliveryStatusChangedEvent creates a new status changed event
func NewDeliveryStatusChangedEvent(request *DeliveryRequest, oldStatus Status) *DeliveryStatusChangedEvent {
	return &DeliveryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryStatusChanged, AggregateTypeDeliveryRequest, request.ID),
		OrderID:         request.OrderID,
		TrackingNumber:  request.TrackingNumber,
		OldStatus:       string(oldStatus),
		NewStatus:       string(request.Status),
	}
}

// DeliveryCompletedEvent is published when the package reaches the
// buyer. The escrow auto-release clock starts from here.
type DeliveryCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewDeliveryCompletedEvent creates a new delivery completed event
func NewDeliveryCompletedEvent(request *DeliveryRequest) *DeliveryCompletedEvent {
	return &DeliveryCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryCompleted, AggregateTypeDeliveryRequest, request.ID),
		OrderID:         request.OrderID,
		TrackingNumber:  request.TrackingNumber,
	}
}
