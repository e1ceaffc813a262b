package payment

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeEscrow is the aggregate type for escrow events
const AggregateTypeEscrow = "Escrow"

// Escrow event types
const (
	EventTypeEscrowOpened   = "escrow.opened"
	EventTypeEscrowReleased = "escrow.released"
	EventTypeEscrowRefunded = "escrow.refunded"
	EventTypeEscrowDisputed = "escrow.disputed"
)

// EscrowOpenedEvent is published when funds are first held for an order
type EscrowOpenedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewEscrowOpenedEvent creates a new escrow opened event
func NewEscrowOpenedEvent(escrow *Escrow) *EscrowOpenedEvent {
	return &EscrowOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowOpened, AggregateTypeEscrow, escrow.ID),
		OrderID:         escrow.OrderID,
		Amount:          escrow.Amount,
	}
}

// EscrowReleasedEvent is published when held funds pay out to the seller
type EscrowReleasedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewEscrowReleasedEvent creates a new escrow released event
func NewEscrowReleasedEvent(escrow *Escrow) *EscrowReleasedEvent {
	return &EscrowReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowReleased, AggregateTypeEscrow, escrow.ID),
		OrderID:         escrow.OrderID,
		Amount:          escrow.Amount,
	}
}

// EscrowRefundedEvent is published when held funds return to the buyer
type EscrowRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewEscrowRefundedEvent creates a new escrow refunded event
func NewEscrowRefundedEvent(escrow *Escrow) *EscrowRefundedEvent {
	return &EscrowRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowRefunded, AggregateTypeEscrow, escrow.ID),
		OrderID:         escrow.OrderID,
		Amount:          escrow.Amount,
	}
}

// EscrowDisputedEvent is published when a buyer opens a dispute
type EscrowDisputedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewEscrowDisputedEvent creates a new escrow disputed event
func NewEscrowDisputedEvent(escrow *Escrow) *EscrowDisputedEvent {
	return &EscrowDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEscrowDisputed, AggregateTypeEscrow, escrow.ID),
		OrderID:         escrow.OrderID,
	}
}
