package store

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles store review operations
type ReviewService struct {
	reviewRepo store.StoreReviewRepository
	storeRepo  store.StoreRepository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo store.StoreReviewRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviewRepo: reviewRepo,
		storeRepo:  storeRepo,
		logger:     logger,
	}
}

// Create creates a review of a store. Owners cannot review their own
// store, and a reviewer may review a store once.
func (s *ReviewService) Create(ctx context.Context, reviewerID, storeID uuid.UUID, req CreateStoreReviewRequest) (*StoreReviewResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if st.IsOwnedBy(reviewerID) {
		return nil, shared.NewDomainError("SELF_REVIEW", "You cannot review your own store")
	}

	existing, err := s.reviewRepo.FindByStoreAndReviewer(ctx, storeID, reviewerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this store")
	}

	review, err := store.NewStoreReview(storeID, reviewerID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("store review created",
		zap.String("review_id", review.ID.String()),
		zap.String("store_id", storeID.String()),
		zap.Int("rating", req.Rating))

	response := ToStoreReviewResponse(review)
	return &response, nil
}

// Update edits the reviewer's own review
func (s *ReviewService) Update(ctx context.Context, reviewerID, reviewID uuid.UUID, req UpdateStoreReviewRequest) (*StoreReviewResponse, error) {
	review, err := s.findOwnReview(ctx, reviewerID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := review.Update(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	response := ToStoreReviewResponse(review)
	return &response, nil
}

// Delete removes the reviewer's own review
func (s *ReviewService) Delete(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	review, err := s.findOwnReview(ctx, reviewerID, reviewID)
	if err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, review.ID)
}

// ListByStore retrieves a store's reviews with the rating aggregate
func (s *ReviewService) ListByStore(ctx context.Context, storeID uuid.UUID, page, pageSize int) (*StoreReviewListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := s.reviewRepo.FindByStore(ctx, storeID, shared.Filter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	average, err := s.reviewRepo.AverageRating(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]StoreReviewResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = ToStoreReviewResponse(r)
	}

	return &StoreReviewListResponse{
		Reviews:       responses,
		Total:         total,
		AverageRating: average,
	}, nil
}

// MarkHelpful records that a user found a review helpful. Repeat votes
// are rejected.
func (s *ReviewService) MarkHelpful(ctx context.Context, userID, reviewID uuid.UUID) (*StoreReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
		}
		return nil, err
	}

	voted, err := s.reviewRepo.HasHelpfulVote(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, shared.NewDomainError("ALREADY_VOTED", "You have already marked this review helpful")
	}

	vote, err := store.NewReviewHelpfulVote(reviewID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.CreateHelpfulVote(ctx, vote); err != nil {
		return nil, err
	}

	review.MarkHelpful()
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	response := ToStoreReviewResponse(review)
	return &response, nil
}

// findOwnReview loads a review and verifies the caller wrote it
func (s *ReviewService) findOwnReview(ctx context.Context, reviewerID, reviewID uuid.UUID) (*store.StoreReview, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
		}
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, shared.NewDomainError("NOT_REVIEW_AUTHOR", "Only the author can change this review")
	}
	return review, nil
}
