package store

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// Create creates a new store
	Create(ctx context.Context, store *Store) error

	// Update updates an existing store
	Update(ctx context.Context, store *Store) error

	// Delete deletes a store by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a store by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindBySlug finds a store by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Store, error)

	// FindByOwner finds all stores owned by a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Store, error)

	// FindAll finds stores matching the filter
	FindAll(ctx context.Context, filter StoreFilter) ([]*Store, int64, error)

	// ExistsBySlug checks if a store with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountByOwner counts stores owned by a user
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// OwnerHasPremiumStore checks whether any of the owner's stores is premium
	OwnerHasPremiumStore(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

// StoreFilter defines filter criteria for store queries
type StoreFilter struct {
	Keyword   string
	OwnerID   *uuid.UUID
	Premium   *bool
	Status    *StoreStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// NewStoreFilter creates a new store filter with default values
func NewStoreFilter() StoreFilter {
	return StoreFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the keyword for name search
func (f StoreFilter) WithKeyword(keyword string) StoreFilter {
	f.Keyword = keyword
	return f
}

// WithOwner sets the owner filter
func (f StoreFilter) WithOwner(ownerID uuid.UUID) StoreFilter {
	f.OwnerID = &ownerID
	return f
}

// WithPremium sets the premium filter
func (f StoreFilter) WithPremium(premium bool) StoreFilter {
	f.Premium = &premium
	return f
}

// WithStatus sets the status filter
func (f StoreFilter) WithStatus(status StoreStatus) StoreFilter {
	f.Status = &status
	return f
}

// WithPagination sets the pagination parameters
func (f StoreFilter) WithPagination(page, pageSize int) StoreFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset calculates the offset for pagination
func (f StoreFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f StoreFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
