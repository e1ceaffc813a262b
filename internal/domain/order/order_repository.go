package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates an order with its items
	Create(ctx context.Context, order *Order) error

	// Update updates an order and its items
	Update(ctx context.Context, order *Order) error

	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByBuyer returns a buyer's orders, newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// FindByStore returns orders containing a store's items, newest first
	FindByStore(ctx context.Context, storeID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)

	// CountByBuyer counts a buyer's orders
	CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)

	// SalesCountByStore sums sold quantities across a store's order items
	SalesCountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// OrderFilter defines filter criteria for order queries
type OrderFilter struct {
	BuyerID   *uuid.UUID
	StoreID   *uuid.UUID
	Status    *OrderStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// NewOrderFilter creates a new order filter with default values
func NewOrderFilter() OrderFilter {
	return OrderFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithBuyer sets the buyer filter
func (f OrderFilter) WithBuyer(buyerID uuid.UUID) OrderFilter {
	f.BuyerID = &buyerID
	return f
}

// WithStore sets the store filter
func (f OrderFilter) WithStore(storeID uuid.UUID) OrderFilter {
	f.StoreID = &storeID
	return f
}

// WithStatus sets the status filter
func (f OrderFilter) WithStatus(status OrderStatus) OrderFilter {
	f.Status = &status
	return f
}

// WithPagination sets the pagination parameters
func (f OrderFilter) WithPagination(page, pageSize int) OrderFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset calculates the offset for pagination
func (f OrderFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f OrderFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
