package inventory

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultReservationTTL is how long checkout holds stock while the
// buyer completes payment.
const DefaultReservationTTL = 15 * time.Minute

// StockReservation holds listing stock for a pending order so
// concurrent checkouts cannot oversell. Paid orders consume the
// reservation; the scheduler releases expired ones.
type StockReservation struct {
	shared.BaseEntity
	ListingID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity   int        `gorm:"not null"`
	ExpireAt   time.Time  `gorm:"not null;index"`
	Released   bool       `gorm:"not null;default:false"`
	Consumed   bool       `gorm:"not null;default:false"`
	ReleasedAt *time.Time ``
}

// TableName returns the table name for GORM
func (StockReservation) TableName() string {
	return "stock_reservations"
}

// NewStockReservation holds quantity units of a listing for an order
func NewStockReservation(listingID, orderID uuid.UUID, quantity int, ttl time.Duration) (*StockReservation, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}

	return &StockReservation{
		BaseEntity: shared.NewBaseEntity(),
		ListingID:  listingID,
		OrderID:    orderID,
		Quantity:   quantity,
		ExpireAt:   time.Now().Add(ttl),
	}, nil
}

// IsActive returns true while the hold still counts against stock
func (r *StockReservation) IsActive() bool {
	return !r.Released && !r.Consumed
}

// IsExpired returns true once the hold has outlived its TTL
func (r *StockReservation) IsExpired(now time.Time) bool {
	return now.After(r.ExpireAt)
}

// Release returns the held stock, either on cancellation or expiry
func (r *StockReservation) Release() {
	if !r.IsActive() {
		return
	}
	now := time.Now()
	r.Released = true
	r.ReleasedAt = &now
	r.UpdatedAt = now
}

// Consume converts the hold into a real stock decrement on payment
func (r *StockReservation) Consume() error {
	if !r.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Reservation is already closed")
	}
	now := time.Now()
	r.Consumed = true
	r.ReleasedAt = &now
	r.UpdatedAt = now
	return nil
}
