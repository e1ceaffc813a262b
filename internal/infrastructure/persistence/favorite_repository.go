package persistence

import (
	"context"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Create saves a favorite
func (r *GormFavoriteRepository) Create(ctx context.Context, favorite *catalog.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// Delete removes a user's favorite for a listing
func (r *GormFavoriteRepository) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&catalog.Favorite{}).Error
}

// Exists checks whether the user has favorited the listing
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByUser returns a user's favorites, newest first
func (r *GormFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*catalog.Favorite, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var favorites []*catalog.Favorite
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&favorites).Error; err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}

// CountByListing counts how many users favorited a listing
func (r *GormFavoriteRepository) CountByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Favorite{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count, err
}
