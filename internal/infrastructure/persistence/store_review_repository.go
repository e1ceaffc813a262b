package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreReviewRepository implements StoreReviewRepository using GORM
type GormStoreReviewRepository struct {
	db *gorm.DB
}

// NewGormStoreReviewRepository creates a new GormStoreReviewRepository
func NewGormStoreReviewRepository(db *gorm.DB) *GormStoreReviewRepository {
	return &GormStoreReviewRepository{db: db}
}

// Create creates a new review
func (r *GormStoreReviewRepository) Create(ctx context.Context, review *store.StoreReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update updates an existing review
func (r *GormStoreReviewRepository) Update(ctx context.Context, review *store.StoreReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete deletes a review
func (r *GormStoreReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&store.StoreReview{}, "id = ?", id).Error
}

// FindByID finds a review by ID
func (r *GormStoreReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.StoreReview, error) {
	var review store.StoreReview
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByStore returns a store's reviews, newest first
func (r *GormStoreReviewRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*store.StoreReview, int64, error) {
	query := r.db.WithContext(ctx).Model(&store.StoreReview{}).Where("store_id = ?", storeID)

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

	var reviews []*store.StoreReview
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// FindByStoreAndReviewer finds a reviewer's review of a store
func (r *GormStoreReviewRepository) FindByStoreAndReviewer(ctx context.Context, storeID, reviewerID uuid.UUID) (*store.StoreReview, error) {
	var review store.StoreReview
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND reviewer_id = ?", storeID, reviewerID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// AverageRating returns the average rating for a store, zero when unreviewed
func (r *GormStoreReviewRepository) AverageRating(ctx context.Context, storeID uuid.UUID) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).Model(&store.StoreReview{}).
		Select("AVG(rating)").
		Where("store_id = ?", storeID).
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CountByStore counts reviews for a store
func (r *GormStoreReviewRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&store.StoreReview{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// CreateHelpfulVote records a helpful vote
func (r *GormStoreReviewRepository) CreateHelpfulVote(ctx context.Context, vote *store.ReviewHelpfulVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// HasHelpfulVote checks whether the user already voted on the review
func (r *GormStoreReviewRepository) HasHelpfulVote(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&store.ReviewHelpfulVote{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
