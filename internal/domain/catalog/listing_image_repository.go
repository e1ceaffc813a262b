package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ListingImageReader defines the interface for reading individual images by ID
type ListingImageReader interface {
	// FindByID finds an image by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ListingImage, error)

	// FindByIDs finds multiple images by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ListingImage, error)
}

// ListingImageFinder defines the interface for searching images
type ListingImageFinder interface {
	// FindByListing finds all images for a listing in display order
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]ListingImage, error)

	// FindActiveByListing finds confirmed images for a listing in display order
	FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]ListingImage, error)

	// FindMainImage finds the main image for a listing (if any)
	FindMainImage(ctx context.Context, listingID uuid.UUID) (*ListingImage, error)

	// CountActiveByListing counts confirmed images for a listing
	CountActiveByListing(ctx context.Context, listingID uuid.UUID) (int64, error)

	// ExistsByStorageKey checks if an image with the given storage key exists
	ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error)

	// FindStalePending finds pending images older than the given age in
	// seconds, for cleanup of abandoned uploads
	FindStalePending(ctx context.Context, olderThanSeconds int, limit int) ([]ListingImage, error)
}

// ListingImageWriter defines the interface for image persistence
type ListingImageWriter interface {
	// Save creates or updates an image
	Save(ctx context.Context, image *ListingImage) error

	// SaveBatch creates or updates multiple images
	SaveBatch(ctx context.Context, images []*ListingImage) error

	// Delete permanently deletes an image
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByListing permanently deletes all images for a listing
	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
}

// ListingImageRepository combines all image repository capabilities.
// Prefer the specific interfaces when a component only reads or only
// writes.
type ListingImageRepository interface {
	ListingImageReader
	ListingImageFinder
	ListingImageWriter
}
