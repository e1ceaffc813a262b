package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create creates a new payment
	Create(ctx context.Context, payment *Payment) error

	// Update updates an existing payment
	Update(ctx context.Context, payment *Payment) error

	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrder finds the payment for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Payment, error)

	// FindByCheckoutRequestID finds a payment by its gateway correlation ID.
	// Callbacks are matched to payments through this lookup.
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*Payment, error)

	// FindByTransactionID finds a payment by its M-Pesa receipt number
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)

	// FindStaleInitiated finds payments stuck in initiated state past the
	// cutoff, candidates for a status query against the gateway
	FindStaleInitiated(ctx context.Context, cutoff time.Time, limit int) ([]*Payment, error)
}

// EscrowRepository defines the interface for escrow persistence
type EscrowRepository interface {
	// Create creates a new escrow
	Create(ctx context.Context, escrow *Escrow) error

	// Update updates an existing escrow
	Update(ctx context.Context, escrow *Escrow) error

	// FindByID finds an escrow by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Escrow, error)

	// FindByOrder finds the escrow for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Escrow, error)

	// FindDueForAutoRelease finds held escrows whose auto-release
	// deadline has passed
	FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*Escrow, error)
}
