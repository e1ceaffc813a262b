package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *Listing) error

	// Update updates an existing listing
	Update(ctx context.Context, listing *Listing) error

	// Delete deletes a listing by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a listing by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindBySlug finds a listing by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Listing, error)

	// FindAll finds listings matching the filter
	FindAll(ctx context.Context, filter ListingFilter) ([]*Listing, int64, error)

	// FindFeatured finds active featured listings
	FindFeatured(ctx context.Context, limit int) ([]*Listing, error)

	// FindTrending finds active listings ordered by view count
	FindTrending(ctx context.Context, limit int) ([]*Listing, error)

	// FindByStore finds listings belonging to a store
	FindByStore(ctx context.Context, storeID uuid.UUID, filter ListingFilter) ([]*Listing, int64, error)

	// ExistsBySlug checks if a listing with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountByStore counts listings belonging to a store
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// IncrementViews atomically increments the view counter
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// UnfeatureByStore clears the featured flag on all of a store's
	// listings, used when a subscription lapses
	UnfeatureByStore(ctx context.Context, storeID uuid.UUID) error
}

// ListingFilter defines filter criteria for listing queries
type ListingFilter struct {
	Keyword    string
	StoreID    *uuid.UUID
	SellerID   *uuid.UUID
	CategoryID *uuid.UUID
	Location   *ListingLocation
	Condition  *ListingCondition
	Status     *ListingStatus
	Featured   *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// NewListingFilter creates a new listing filter with default values
func NewListingFilter() ListingFilter {
	return ListingFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the keyword for search against title, description and brand
func (f ListingFilter) WithKeyword(keyword string) ListingFilter {
	f.Keyword = keyword
	return f
}

// WithStore sets the store filter
func (f ListingFilter) WithStore(storeID uuid.UUID) ListingFilter {
	f.StoreID = &storeID
	return f
}

// WithSeller sets the seller filter
func (f ListingFilter) WithSeller(sellerID uuid.UUID) ListingFilter {
	f.SellerID = &sellerID
	return f
}

// WithCategory sets the category filter
func (f ListingFilter) WithCategory(categoryID uuid.UUID) ListingFilter {
	f.CategoryID = &categoryID
	return f
}

// WithLocation sets the location filter
func (f ListingFilter) WithLocation(location ListingLocation) ListingFilter {
	f.Location = &location
	return f
}

// WithCondition sets the condition filter
func (f ListingFilter) WithCondition(condition ListingCondition) ListingFilter {
	f.Condition = &condition
	return f
}

// WithStatus sets the status filter
func (f ListingFilter) WithStatus(status ListingStatus) ListingFilter {
	f.Status = &status
	return f
}

// WithFeatured sets the featured filter
func (f ListingFilter) WithFeatured(featured bool) ListingFilter {
	f.Featured = &featured
	return f
}

// WithPriceRange sets the price range filter
func (f ListingFilter) WithPriceRange(min, max *decimal.Decimal) ListingFilter {
	f.MinPrice = min
	f.MaxPrice = max
	return f
}

// WithPagination sets the pagination parameters
func (f ListingFilter) WithPagination(page, pageSize int) ListingFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// WithSorting sets the sorting parameters
func (f ListingFilter) WithSorting(sortBy, sortOrder string) ListingFilter {
	f.SortBy = sortBy
	f.SortOrder = sortOrder
	return f
}

// Offset calculates the offset for pagination
func (f ListingFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ListingFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
