package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/review"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormReviewRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new review
func (r *GormReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rev).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &rev.BaseAggregateRoot)
	})
}

// Update updates an existing review
func (r *GormReviewRepository) Update(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(rev).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &rev.BaseAggregateRoot)
	})
}

// flushEvents writes recorded domain events to the outbox inside the
// surrounding transaction, then clears them from the aggregate
func (r *GormReviewRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if r.outboxSaver != nil {
		if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
			return err
		}
	}
	agg.ClearDomainEvents()
	return nil
}

// Delete removes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review.Photo{}, "review_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&review.Review{}, "id = ?", id).Error
	})
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	err := r.db.WithContext(ctx).
		Preload("Photos").
		First(&rev, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByListing finds public listing reviews, newest first
func (r *GormReviewRepository) FindByListing(ctx context.Context, listingID uuid.UUID, page, pageSize int) ([]*review.Review, int64, error) {
	return r.findPublic(ctx, "listing_id = ?", listingID, page, pageSize)
}

// FindBySeller finds public seller reviews, newest first
func (r *GormReviewRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) ([]*review.Review, int64, error) {
	return r.findPublic(ctx, "seller_id = ?", sellerID, page, pageSize)
}

func (r *GormReviewRepository) findPublic(ctx context.Context, cond string, targetID uuid.UUID, page, pageSize int) ([]*review.Review, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where(cond, targetID).
		Where("public = true")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var reviews []*review.Review
	err := query.
		Preload("Photos").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// FindByOrder finds the reviewer's review of an order
func (r *GormReviewRepository) FindByOrder(ctx context.Context, reviewerID, orderID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("reviewer_id = ? AND order_id = ?", reviewerID, orderID).
		First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ExistsForListing checks whether the reviewer already reviewed the listing
func (r *GormReviewRepository) ExistsForListing(ctx context.Context, reviewerID, listingID uuid.UUID) (bool, error) {
	return r.exists(ctx, "reviewer_id = ? AND listing_id = ?", reviewerID, listingID)
}

// ExistsForSeller checks whether the reviewer already reviewed the seller
func (r *GormReviewRepository) ExistsForSeller(ctx context.Context, reviewerID, sellerID uuid.UUID) (bool, error) {
	return r.exists(ctx, "reviewer_id = ? AND seller_id = ?", reviewerID, sellerID)
}

// ExistsForOrder checks whether the reviewer already reviewed the order
func (r *GormReviewRepository) ExistsForOrder(ctx context.Context, reviewerID, orderID uuid.UUID) (bool, error) {
	return r.exists(ctx, "reviewer_id = ? AND order_id = ?", reviewerID, orderID)
}

func (r *GormReviewRepository) exists(ctx context.Context, cond string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where(cond, args...).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListingRating aggregates public listing reviews
func (r *GormReviewRepository) ListingRating(ctx context.Context, listingID uuid.UUID) (*review.RatingSummary, error) {
	return r.rating(ctx, "listing_id = ?", listingID)
}

// SellerRating aggregates public seller reviews
func (r *GormReviewRepository) SellerRating(ctx context.Context, sellerID uuid.UUID) (*review.RatingSummary, error) {
	return r.rating(ctx, "seller_id = ?", sellerID)
}

func (r *GormReviewRepository) rating(ctx context.Context, cond string, targetID uuid.UUID) (*review.RatingSummary, error) {
	var result struct {
		Average *float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("AVG(rating) as average, COUNT(*) as count").
		Where(cond, targetID).
		Where("public = true").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	summary := &review.RatingSummary{Count: result.Count}
	if result.Average != nil {
		summary.Average = *result.Average
	}
	return summary, nil
}
