package review

import (
	"context"

	"github.com/google/uuid"
)

// RatingSummary aggregates ratings over a target
type RatingSummary struct {
	Average float64
	Count   int64
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *Review) error

	// Update updates an existing review
	Update(ctx context.Context, review *Review) error

	// Delete removes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByListing finds public listing reviews, newest first
	FindByListing(ctx context.Context, listingID uuid.UUID, page, pageSize int) ([]*Review, int64, error)

	// FindBySeller finds public seller reviews, newest first
	FindBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) ([]*Review, int64, error)

	// FindByOrder finds the reviewer's review of an order
	FindByOrder(ctx context.Context, reviewerID, orderID uuid.UUID) (*Review, error)

	// ExistsForListing checks whether the reviewer already reviewed the listing
	ExistsForListing(ctx context.Context, reviewerID, listingID uuid.UUID) (bool, error)

	// ExistsForSeller checks whether the reviewer already reviewed the seller
	ExistsForSeller(ctx context.Context, reviewerID, sellerID uuid.UUID) (bool, error)

	// ExistsForOrder checks whether the reviewer already reviewed the order
	ExistsForOrder(ctx context.Context, reviewerID, orderID uuid.UUID) (bool, error)

	// ListingRating aggregates public listing reviews
	ListingRating(ctx context.Context, listingID uuid.UUID) (*RatingSummary, error)

	// SellerRating aggregates public seller reviews
	SellerRating(ctx context.Context, sellerID uuid.UUID) (*RatingSummary, error)
}
