package catalog

import (
	"context"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Favorite marks a listing a user has saved. A user can favorite a
// listing at most once.
type Favorite struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing"`
}

// TableName returns the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite creates a new favorite
func NewFavorite(userID, listingID uuid.UUID) (*Favorite, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}

	return &Favorite{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ListingID:  listingID,
	}, nil
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	// Create saves a favorite
	Create(ctx context.Context, favorite *Favorite) error

	// Delete removes a user's favorite for a listing
	Delete(ctx context.Context, userID, listingID uuid.UUID) error

	// Exists checks whether the user has favorited the listing
	Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error)

	// FindByUser returns a user's favorites, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Favorite, int64, error)

	// CountByListing counts how many users favorited a listing
	CountByListing(ctx context.Context, listingID uuid.UUID) (int64, error)
}
