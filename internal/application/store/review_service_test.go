package store

import (
	"context"
	"testing"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestReviewService() (*ReviewService, *MockStoreReviewRepository, *MockStoreRepository) {
	reviewRepo := new(MockStoreReviewRepository)
	storeRepo := new(MockStoreRepository)
	service := NewReviewService(reviewRepo, storeRepo, nil)
	return service, reviewRepo, storeRepo
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, reviewRepo, storeRepo := newTestReviewService()
		st := newOwnedStore(t, uuid.New())
		reviewerID := uuid.New()

		storeRepo.On("FindByID", ctx, st.ID).Return(st, nil)
		reviewRepo.On("FindByStoreAndReviewer", ctx, st.ID, reviewerID).Return(nil, shared.ErrNotFound)
		reviewRepo.On("Create", ctx, mock.AnythingOfType("*store.StoreReview")).Return(nil)

		result, err := service.Create(ctx, reviewerID, st.ID, CreateStoreReviewRequest{
			Rating:  5,
			Comment: "Fast delivery and honest pricing",
		})

		require.NoError(t, err)
		assert.Equal(t, 5, result.Rating)
		assert.Equal(t, reviewerID, result.ReviewerID)
	})

	t.Run("owner cannot review own store", func(t *testing.T) {
		service, reviewRepo, storeRepo := newTestReviewService()
		ownerID := uuid.New()
		st := newOwnedStore(t, ownerID)

		storeRepo.On("FindByID", ctx, st.ID).Return(st, nil)

		_, err := service.Create(ctx, ownerID, st.ID, CreateStoreReviewRequest{Rating: 5})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SELF_REVIEW", domainErr.Code)
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("one review per store", func(t *testing.T) {
		service, reviewRepo, storeRepo := newTestReviewService()
		st := newOwnedStore(t, uuid.New())
		reviewerID := uuid.New()
		existing, err := store.NewStoreReview(st.ID, reviewerID, 3, "Okay")
		require.NoError(t, err)

		storeRepo.On("FindByID", ctx, st.ID).Return(st, nil)
		reviewRepo.On("FindByStoreAndReviewer", ctx, st.ID, reviewerID).Return(existing, nil)

		_, err = service.Create(ctx, reviewerID, st.ID, CreateStoreReviewRequest{Rating: 4})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_REVIEWED", domainErr.Code)
	})
}

func TestReviewService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("only the author can edit", func(t *testing.T) {
		service, reviewRepo, _ := newTestReviewService()
		review, err := store.NewStoreReview(uuid.New(), uuid.New(), 4, "Decent")
		require.NoError(t, err)

		reviewRepo.On("FindByID", ctx, review.ID).Return(review, nil)

		_, err = service.Update(ctx, uuid.New(), review.ID, UpdateStoreReviewRequest{Rating: 1})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_REVIEW_AUTHOR", domainErr.Code)
	})

	t.Run("author updates rating", func(t *testing.T) {
		service, reviewRepo, _ := newTestReviewService()
		reviewerID := uuid.New()
		review, err := store.NewStoreReview(uuid.New(), reviewerID, 4, "Decent")
		require.NoError(t, err)

		reviewRepo.On("FindByID", ctx, review.ID).Return(review, nil)
		reviewRepo.On("Update", ctx, review).Return(nil)

		result, err := service.Update(ctx, reviewerID, review.ID, UpdateStoreReviewRequest{
			Rating:  2,
			Comment: "Second order arrived late",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Rating)
	})
}

func TestReviewService_MarkHelpful(t *testing.T) {
	ctx := context.Background()

	t.Run("records vote and bumps count", func(t *testing.T) {
		service, reviewRepo, _ := newTestReviewService()
		review, err := store.NewStoreReview(uuid.New(), uuid.New(), 5, "Great")
		require.NoError(t, err)
		voterID := uuid.New()

		reviewRepo.On("FindByID", ctx, review.ID).Return(review, nil)
		reviewRepo.On("HasHelpfulVote", ctx, review.ID, voterID).Return(false, nil)
		reviewRepo.On("CreateHelpfulVote", ctx, mock.AnythingOfType("*store.ReviewHelpfulVote")).Return(nil)
		reviewRepo.On("Update", ctx, review).Return(nil)

		result, err := service.MarkHelpful(ctx, voterID, review.ID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.HelpfulCount)
	})

	t.Run("repeat votes are rejected", func(t *testing.T) {
		service, reviewRepo, _ := newTestReviewService()
		review, err := store.NewStoreReview(uuid.New(), uuid.New(), 5, "Great")
		require.NoError(t, err)
		voterID := uuid.New()

		reviewRepo.On("FindByID", ctx, review.ID).Return(review, nil)
		reviewRepo.On("HasHelpfulVote", ctx, review.ID, voterID).Return(true, nil)

		_, err = service.MarkHelpful(ctx, voterID, review.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_VOTED", domainErr.Code)
		reviewRepo.AssertNotCalled(t, "CreateHelpfulVote", mock.Anything, mock.Anything)
	})
}

func TestReviewService_ListByStore(t *testing.T) {
	ctx := context.Background()

	service, reviewRepo, _ := newTestReviewService()
	storeID := uuid.New()
	first, err := store.NewStoreReview(storeID, uuid.New(), 5, "Great")
	require.NoError(t, err)
	second, err := store.NewStoreReview(storeID, uuid.New(), 3, "Okay")
	require.NoError(t, err)

	reviewRepo.On("FindByStore", ctx, storeID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]*store.StoreReview{first, second}, int64(2), nil)
	reviewRepo.On("AverageRating", ctx, storeID).Return(4.0, nil)

	result, err := service.ListByStore(ctx, storeID, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Len(t, result.Reviews, 2)
	assert.InDelta(t, 4.0, result.AverageRating, 0.001)
}
