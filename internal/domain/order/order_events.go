package order

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AggregateTypeOrder is the aggregate type for orders
	AggregateTypeOrder = "Order"

	// Order event types
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderPaid          = "order.paid"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeOrderDelivered     = "order.delivered"
	EventTypeOrderCancelled     = "order.cancelled"
	EventTypeOrderDisputed      = "order.disputed"
)

// OrderCreatedEvent is published when checkout creates an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	BuyerID    uuid.UUID       `json:"buyer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ItemCount  int             `json:"item_count"`
	StoreIDs   []uuid.UUID     `json:"store_ids"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
		TotalPrice:      order.TotalPrice,
		ItemCount:       len(order.Items),
		StoreIDs:        order.StoreIDs(),
	}
}

// OrderPaidEvent is published when payment is confirmed. Escrow is
// opened and seller notifications fire from this event.
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	BuyerID    uuid.UUID       `json:"buyer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	StoreIDs   []uuid.UUID     `json:"store_ids"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(order *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
		TotalPrice:      order.TotalPrice,
		StoreIDs:        order.StoreIDs(),
	}
}

// OrderStatusChangedEvent is published on every status transition.
// The webhook dispatcher notifies the delivery system from this event.
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	BuyerID   uuid.UUID   `json:"buyer_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderDeliveredEvent is published when the courier confirms delivery.
// The escrow auto-release clock starts from this event.
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	BuyerID uuid.UUID `json:"buyer_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(order *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
	}
}

// OrderCancelledEvent is published when an order is cancelled. Stock
// is restored and, when already paid, escrow refunds from this event.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	BuyerID   uuid.UUID   `json:"buyer_id"`
	OldStatus OrderStatus `json:"old_status"`
	WasPaid   bool        `json:"was_paid"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, oldStatus OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
		OldStatus:       oldStatus,
		WasPaid:         oldStatus != OrderStatusPending,
	}
}

// OrderDisputedEvent is published when the buyer raises a dispute
type OrderDisputedEvent struct {
	shared.BaseDomainEvent
	BuyerID   uuid.UUID   `json:"buyer_id"`
	OldStatus OrderStatus `json:"old_status"`
}

// NewOrderDisputedEvent creates a new OrderDisputedEvent
func NewOrderDisputedEvent(order *Order, oldStatus OrderStatus) *OrderDisputedEvent {
	return &OrderDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDisputed, AggregateTypeOrder, order.ID),
		BuyerID:         order.BuyerID,
		OldStatus:       oldStatus,
	}
}
