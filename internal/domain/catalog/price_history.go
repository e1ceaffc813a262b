package catalog

import (
	"context"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory records a price a listing carried at a point in time.
// A row is appended on creation and on every price change, so buyers
// can see how a listing's price has moved.
type PriceHistory struct {
	shared.BaseEntity
	ListingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (PriceHistory) TableName() string {
	return "price_history"
}

// NewPriceHistory creates a new price history entry
func NewPriceHistory(listingID uuid.UUID, price decimal.Decimal) (*PriceHistory, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if price.IsNegative() || price.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	return &PriceHistory{
		BaseEntity: shared.NewBaseEntity(),
		ListingID:  listingID,
		Price:      price,
	}, nil
}

// PriceHistoryRepository defines the interface for price history persistence
type PriceHistoryRepository interface {
	// Create appends a price history entry
	Create(ctx context.Context, entry *PriceHistory) error

	// FindByListing returns a listing's price history, newest first
	FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*PriceHistory, error)

	// DeleteByListing removes all history for a listing
	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
}
