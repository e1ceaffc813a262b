package persistence

import (
	"context"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecentlyViewedRepository implements RecentlyViewedRepository using GORM
type GormRecentlyViewedRepository struct {
	db *gorm.DB
}

// NewGormRecentlyViewedRepository creates a new GormRecentlyViewedRepository
func NewGormRecentlyViewedRepository(db *gorm.DB) *GormRecentlyViewedRepository {
	return &GormRecentlyViewedRepository{db: db}
}

// Upsert records a view, bumping ViewedAt on a repeat visit
func (r *GormRecentlyViewedRepository) Upsert(ctx context.Context, entry *catalog.RecentlyViewed) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at", "updated_at"}),
	}).Create(entry).Error
}

// FindByUser returns a user's recent views, most recent first
func (r *GormRecentlyViewedRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*catalog.RecentlyViewed, error) {
	var entries []*catalog.RecentlyViewed
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// TrimByUser keeps only the user's most recent entries
func (r *GormRecentlyViewedRepository) TrimByUser(ctx context.Context, userID uuid.UUID, keep int) error {
	if keep <= 0 {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Delete(&catalog.RecentlyViewed{}).Error
	}
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM recently_viewed
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM recently_viewed
			WHERE user_id = ?
			ORDER BY viewed_at DESC
			LIMIT ?
		)`, userID, userID, keep).Error
}

// DeleteByListing removes view history for a deleted listing
func (r *GormRecentlyViewedRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&catalog.RecentlyViewed{}).Error
}
