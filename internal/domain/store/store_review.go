package store

import (
	"context"
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreReview is a buyer's review of a store as a whole, separate from
// reviews of individual listings. A reviewer may review a store once.
type StoreReview struct {
	shared.BaseAggregateRoot
	StoreID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_review_reviewer"`
	ReviewerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_review_reviewer"`
	Rating       int       `gorm:"not null"`
	Comment      string    `gorm:"type:varchar(1000);not null"`
	HelpfulCount int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StoreReview) TableName() string {
	return "store_reviews"
}

// NewStoreReview creates a new store review
func NewStoreReview(storeID, reviewerID uuid.UUID, rating int, comment string) (*StoreReview, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if reviewerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEWER_ID", "Reviewer ID cannot be empty")
	}
	if err := validateReviewRating(rating); err != nil {
		return nil, err
	}
	if err := validateReviewComment(comment); err != nil {
		return nil, err
	}

	review := &StoreReview{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ReviewerID:        reviewerID,
		Rating:            rating,
		Comment:           strings.TrimSpace(comment),
	}

	review.AddDomainEvent(NewStoreReviewCreatedEvent(review))

	return review, nil
}

// Update changes the rating and comment
func (r *StoreReview) Update(rating int, comment string) error {
	if err := validateReviewRating(rating); err != nil {
		return err
	}
	if err := validateReviewComment(comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// MarkHelpful increments the helpful counter. The application service
// records the vote first so a user can only vote once.
func (r *StoreReview) MarkHelpful() {
	r.HelpfulCount++
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func validateReviewRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

func validateReviewComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot be empty")
	}
	if len(comment) > 1000 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	return nil
}

// ReviewHelpfulVote records which users found a review helpful, so the
// counter cannot be inflated by repeat votes.
type ReviewHelpfulVote struct {
	shared.BaseEntity
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_helpful_review_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_helpful_review_user"`
}

// TableName returns the table name for GORM
func (ReviewHelpfulVote) TableName() string {
	return "store_review_helpful_votes"
}

// NewReviewHelpfulVote creates a new helpful vote
func NewReviewHelpfulVote(reviewID, userID uuid.UUID) (*ReviewHelpfulVote, error) {
	if reviewID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEW_ID", "Review ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	return &ReviewHelpfulVote{
		BaseEntity: shared.NewBaseEntity(),
		ReviewID:   reviewID,
		UserID:     userID,
	}, nil
}

// StoreReviewRepository defines the interface for store review persistence
type StoreReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *StoreReview) error

	// Update updates an existing review
	Update(ctx context.Context, review *StoreReview) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StoreReview, error)

	// FindByStore returns a store's reviews, newest first
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*StoreReview, int64, error)

	// FindByStoreAndReviewer finds a reviewer's review of a store
	FindByStoreAndReviewer(ctx context.Context, storeID, reviewerID uuid.UUID) (*StoreReview, error)

	// AverageRating returns the average rating for a store, zero when unreviewed
	AverageRating(ctx context.Context, storeID uuid.UUID) (float64, error)

	// CountByStore counts reviews for a store
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// CreateHelpfulVote records a helpful vote
	CreateHelpfulVote(ctx context.Context, vote *ReviewHelpfulVote) error

	// HasHelpfulVote checks whether the user already voted on the review
	HasHelpfulVote(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
}
