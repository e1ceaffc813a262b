package catalog

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecentlyViewed records that a user looked at a listing. One row is
// kept per user and listing; revisiting bumps ViewedAt.
type RecentlyViewed struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recent_user_listing"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recent_user_listing"`
	ViewedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}

// NewRecentlyViewed creates a new recently viewed entry
func NewRecentlyViewed(userID, listingID uuid.UUID) (*RecentlyViewed, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}

	return &RecentlyViewed{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ListingID:  listingID,
		ViewedAt:   time.Now(),
	}, nil
}

// Touch bumps the viewed timestamp for a repeat visit
func (r *RecentlyViewed) Touch() {
	r.ViewedAt = time.Now()
	r.UpdatedAt = time.Now()
}

// RecentlyViewedRepository defines the interface for view history persistence
type RecentlyViewedRepository interface {
	// Upsert records a view, bumping ViewedAt on a repeat visit
	Upsert(ctx context.Context, entry *RecentlyViewed) error

	// FindByUser returns a user's recent views, most recent first
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*RecentlyViewed, error)

	// TrimByUser keeps only the user's most recent entries
	TrimByUser(ctx context.Context, userID uuid.UUID, keep int) error

	// DeleteByListing removes view history for a deleted listing
	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
}
