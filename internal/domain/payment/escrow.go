package payment

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EscrowAutoReleaseAfter is how long funds stay held after payment
// before releasing to the seller absent a dispute. Set once at startup
// from configuration, before any escrow is created.
var EscrowAutoReleaseAfter = 7 * 24 * time.Hour

// EscrowStatus represents where escrowed funds currently sit
type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
	EscrowStatusDisputed EscrowStatus = "disputed"
)

// Escrow holds a paid order's funds until the buyer receives the goods
// or the auto-release window lapses. Disputes freeze the clock.
type Escrow struct {
	shared.BaseAggregateRoot
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status            EscrowStatus    `gorm:"type:varchar(20);not null;default:'held';index"`
	AutoReleaseAt     *time.Time      `gorm:"index"`
	ReleasedAt        *time.Time      ``
	DisputeResolvedAt *time.Time      ``
}

// TableName returns the table name for GORM
func (Escrow) TableName() string {
	return "escrows"
}

// NewEscrow opens an escrow for a paid order with the auto-release
// clock already running.
func NewEscrow(orderID uuid.UUID, amount decimal.Decimal) (*Escrow, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}

	autoRelease := time.Now().Add(EscrowAutoReleaseAfter)

	escrow := &Escrow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Amount:            amount,
		Status:            EscrowStatusHeld,
		AutoReleaseAt:     &autoRelease,
	}

	escrow.AddDomainEvent(NewEscrowOpenedEvent(escrow))

	return escrow, nil
}

// ScheduleAutoRelease moves the auto-release deadline, e.g. restarting
// the clock from the delivery confirmation.
func (e *Escrow) ScheduleAutoRelease(at time.Time) error {
	if e.Status != EscrowStatusHeld {
		return shared.NewDomainError("INVALID_STATUS", "Only held funds can be rescheduled")
	}

	e.AutoReleaseAt = &at
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Release pays the held funds out to the seller
func (e *Escrow) Release() error {
	if e.Status != EscrowStatusHeld {
		return shared.NewDomainError("INVALID_STATUS", "Only held funds can be released")
	}

	now := time.Now()
	e.Status = EscrowStatusReleased
	e.ReleasedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEscrowReleasedEvent(e))

	return nil
}

// Refund returns the held funds to the buyer
func (e *Escrow) Refund() error {
	if e.Status != EscrowStatusHeld && e.Status != EscrowStatusDisputed {
		return shared.NewDomainError("INVALID_STATUS", "Only held or disputed funds can be refunded")
	}

	now := time.Now()
	e.Status = EscrowStatusRefunded
	e.ReleasedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEscrowRefundedEvent(e))

	return nil
}

// Dispute freezes the escrow; auto-release stops until resolution
func (e *Escrow) Dispute() error {
	if e.Status != EscrowStatusHeld {
		return shared.NewDomainError("INVALID_STATUS", "Only held funds can be disputed")
	}

	e.Status = EscrowStatusDisputed
	e.AutoReleaseAt = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEscrowDisputedEvent(e))

	return nil
}

// ResolveForSeller resolves a dispute in the seller's favor
func (e *Escrow) ResolveForSeller() error {
	if e.Status != EscrowStatusDisputed {
		return shared.NewDomainError("INVALID_STATUS", "Escrow is not disputed")
	}

	now := time.Now()
	e.Status = EscrowStatusReleased
	e.ReleasedAt = &now
	e.DisputeResolvedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEscrowReleasedEvent(e))

	return nil
}

// ResolveForBuyer resolves a dispute in the buyer's favor
func (e *Escrow) ResolveForBuyer() error {
	if e.Status != EscrowStatusDisputed {
		return shared.NewDomainError("INVALID_STATUS", "Escrow is not disputed")
	}

	now := time.Now()
	e.DisputeResolvedAt = &now

	return e.Refund()
}

// DueForRelease reports whether the auto-release clock has lapsed
func (e *Escrow) DueForRelease(now time.Time) bool {
	return e.Status == EscrowStatusHeld && e.AutoReleaseAt != nil && !now.Before(*e.AutoReleaseAt)
}

// IsHeld returns true while funds are locked
func (e *Escrow) IsHeld() bool {
	return e.Status == EscrowStatusHeld || e.Status == EscrowStatusDisputed
}
