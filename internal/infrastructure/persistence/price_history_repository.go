package persistence

import (
	"context"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceHistoryRepository implements PriceHistoryRepository using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// Create appends a price history entry
func (r *GormPriceHistoryRepository) Create(ctx context.Context, entry *catalog.PriceHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByListing returns a listing's price history, newest first
func (r *GormPriceHistoryRepository) FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*catalog.PriceHistory, error) {
	var entries []*catalog.PriceHistory
	query := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByListing removes all history for a listing
func (r *GormPriceHistoryRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&catalog.PriceHistory{}).Error
}
