package catalog

import (
	"context"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindActive finds all active categories ordered for display
	FindActive(ctx context.Context) ([]Category, error)

	// FindFeatured finds all active featured categories ordered for display
	FindFeatured(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// HasListings checks if a category has any associated listings
	HasListings(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a category with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}
