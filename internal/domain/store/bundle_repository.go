package store

import (
	"context"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BundleRepository defines the interface for bundle persistence
type BundleRepository interface {
	// Create creates a new bundle with its items
	Create(ctx context.Context, bundle *ProductBundle) error

	// Update updates a bundle and replaces its items
	Update(ctx context.Context, bundle *ProductBundle) error

	// Delete deletes a bundle and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a bundle with its items
	FindByID(ctx context.Context, id uuid.UUID) (*ProductBundle, error)

	// FindBySlug finds a bundle by its unique slug
	FindBySlug(ctx context.Context, slug string) (*ProductBundle, error)

	// FindByStore returns a store's bundles in display order
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*ProductBundle, int64, error)

	// FindActiveByStore returns a store's active bundles in display order
	FindActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*ProductBundle, error)

	// FindByListing returns bundles that include the listing
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]*ProductBundle, error)

	// ExistsBySlug checks if a bundle with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
