package inventory

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementTypeSale       MovementType = "sale"
	MovementTypeRestock    MovementType = "restock"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeReturn     MovementType = "return"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale, MovementTypeRestock, MovementTypeAdjustment, MovementTypeReturn:
		return true
	default:
		return false
	}
}

// StockMovement is one row of the stock audit trail. Quantity is
// signed: negative for outgoing stock, positive for incoming.
type StockMovement struct {
	shared.BaseEntity
	StoreID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	ListingID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type          MovementType `gorm:"type:varchar(20);not null;index"`
	Quantity      int          `gorm:"not null"`
	PreviousStock int          `gorm:"not null"`
	NewStock      int          `gorm:"not null"`
	Notes         string       `gorm:"type:text"`
	CreatedBy     *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a stock change. createdBy is nil for
// system-driven movements such as order payment.
func NewStockMovement(storeID, listingID uuid.UUID, movementType MovementType, previousStock, newStock int, notes string, createdBy *uuid.UUID) (*StockMovement, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if previousStock < 0 || newStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock levels cannot be negative")
	}
	if previousStock == newStock {
		return nil, shared.NewDomainError("NO_CHANGE", "Stock level did not change")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		StoreID:       storeID,
		ListingID:     listingID,
		Type:          movementType,
		Quantity:      newStock - previousStock,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Notes:         notes,
		CreatedBy:     createdBy,
	}, nil
}

// IsOutgoing reports whether stock left the store
func (m *StockMovement) IsOutgoing() bool {
	return m.Quantity < 0
}
