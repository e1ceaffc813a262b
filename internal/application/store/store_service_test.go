package store

import (
	"context"
	"testing"

	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type storeServiceMocks struct {
	storeRepo        *MockStoreRepository
	userRepo         *MockUserRepository
	subscriptionRepo *MockSubscriptionRepository
	reviewRepo       *MockStoreReviewRepository
}

func newTestStoreService() (*StoreService, *storeServiceMocks) {
	m := &storeServiceMocks{
		storeRepo:        new(MockStoreRepository),
		userRepo:         new(MockUserRepository),
		subscriptionRepo: new(MockSubscriptionRepository),
		reviewRepo:       new(MockStoreReviewRepository),
	}
	service := NewStoreService(m.storeRepo, m.userRepo, m.subscriptionRepo, m.reviewRepo, zap.NewNop())
	return service, m
}

func newTestSeller(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("otieno", "otieno@example.com", "Str0ngPass!word")
	require.NoError(t, err)
	require.NoError(t, user.BecomeSeller())
	return user
}

func newOwnedStore(t *testing.T, ownerID uuid.UUID) *store.Store {
	t.Helper()
	st, err := store.NewStore(ownerID, "Otieno Fish Traders", "otieno-fish-traders", "Fresh fish daily")
	require.NoError(t, err)
	return st
}

func TestStoreService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first store is free", func(t *testing.T) {
		service, m := newTestStoreService()
		seller := newTestSeller(t)

		m.userRepo.On("FindByID", ctx, seller.ID).Return(seller, nil)
		m.storeRepo.On("CountByOwner", ctx, seller.ID).Return(int64(0), nil)
		m.storeRepo.On("ExistsBySlug", ctx, "otieno-fish-traders").Return(false, nil)
		m.storeRepo.On("Create", ctx, mock.AnythingOfType("*store.Store")).Return(nil)

		result, err := service.Create(ctx, seller.ID, CreateStoreRequest{
			Name:        "Otieno Fish Traders",
			Description: "Fresh fish daily",
			Location:    "Homa Bay Town",
		})

		require.NoError(t, err)
		assert.Equal(t, "otieno-fish-traders", result.Slug)
		assert.Equal(t, "Homa Bay Town", result.Location)
		assert.False(t, result.Premium)
	})

	t.Run("buyers cannot open a store", func(t *testing.T) {
		service, m := newTestStoreService()
		buyer, err := identity.NewUser("akinyi", "akinyi@example.com", "Str0ngPass!word")
		require.NoError(t, err)

		m.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

		_, err = service.Create(ctx, buyer.ID, CreateStoreRequest{Name: "Akinyi Crafts"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_A_SELLER", domainErr.Code)
	})

	t.Run("second store requires a subscription", func(t *testing.T) {
		service, m := newTestStoreService()
		seller := newTestSeller(t)

		m.userRepo.On("FindByID", ctx, seller.ID).Return(seller, nil)
		m.storeRepo.On("CountByOwner", ctx, seller.ID).Return(int64(1), nil)
		m.subscriptionRepo.On("FindByOwner", ctx, seller.ID).Return([]*subscription.Subscription{}, nil)

		_, err := service.Create(ctx, seller.ID, CreateStoreRequest{Name: "Second Shop"})

		require.ErrorIs(t, err, shared.ErrPaymentRequired)
		m.storeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("plan store cap enforced", func(t *testing.T) {
		service, m := newTestStoreService()
		seller := newTestSeller(t)
		sub, err := subscription.NewTrialSubscription(uuid.New(), subscription.PlanBasic)
		require.NoError(t, err)

		m.userRepo.On("FindByID", ctx, seller.ID).Return(seller, nil)
		m.storeRepo.On("CountByOwner", ctx, seller.ID).Return(int64(1), nil)
		m.subscriptionRepo.On("FindByOwner", ctx, seller.ID).Return([]*subscription.Subscription{sub}, nil)

		_, err = service.Create(ctx, seller.ID, CreateStoreRequest{Name: "Second Shop"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
	})

	t.Run("premium plan allows additional stores", func(t *testing.T) {
		service, m := newTestStoreService()
		seller := newTestSeller(t)
		sub, err := subscription.NewTrialSubscription(uuid.New(), subscription.PlanPremium)
		require.NoError(t, err)

		m.userRepo.On("FindByID", ctx, seller.ID).Return(seller, nil)
		m.storeRepo.On("CountByOwner", ctx, seller.ID).Return(int64(1), nil)
		m.subscriptionRepo.On("FindByOwner", ctx, seller.ID).Return([]*subscription.Subscription{sub}, nil)
		m.storeRepo.On("ExistsBySlug", ctx, mock.Anything).Return(false, nil)
		m.storeRepo.On("Create", ctx, mock.AnythingOfType("*store.Store")).Return(nil)

		_, err = service.Create(ctx, seller.ID, CreateStoreRequest{Name: "Second Shop"})

		require.NoError(t, err)
	})
}

func TestStoreService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		service, m := newTestStoreService()
		ownerID := uuid.New()
		st := newOwnedStore(t, ownerID)

		m.storeRepo.On("FindByID", ctx, st.ID).Return(st, nil)
		m.storeRepo.On("Update", ctx, st).Return(nil)

		policies := "Returns accepted within 7 days"
		result, err := service.Update(ctx, ownerID, st.ID, UpdateStoreRequest{Policies: &policies})

		require.NoError(t, err)
		assert.Equal(t, "Otieno Fish Traders", result.Name)
		assert.Equal(t, policies, result.Policies)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		service, m := newTestStoreService()
		st := newOwnedStore(t, uuid.New())

		m.storeRepo.On("FindByID", ctx, st.ID).Return(st, nil)

		name := "Hijacked"
		_, err := service.Update(ctx, uuid.New(), st.ID, UpdateStoreRequest{Name: &name})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_STORE_OWNER", domainErr.Code)
	})
}

func TestStoreService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	service, m := newTestStoreService()
	st := newOwnedStore(t, uuid.New())

	m.storeRepo.On("FindBySlug", ctx, st.Slug).Return(st, nil)
	m.reviewRepo.On("AverageRating", ctx, st.ID).Return(4.4, nil)
	m.reviewRepo.On("CountByStore", ctx, st.ID).Return(int64(12), nil)

	result, err := service.GetBySlug(ctx, st.Slug)

	require.NoError(t, err)
	assert.Equal(t, st.ID, result.ID)
	assert.InDelta(t, 4.4, result.AverageRating, 0.001)
	assert.Equal(t, int64(12), result.ReviewCount)
}

func TestStoreService_List(t *testing.T) {
	ctx := context.Background()

	service, m := newTestStoreService()
	st := newOwnedStore(t, uuid.New())

	m.storeRepo.On("FindAll", ctx, mock.MatchedBy(func(f store.StoreFilter) bool {
		return f.Status != nil && *f.Status == store.StoreStatusActive &&
			f.Premium != nil && *f.Premium
	})).Return([]*store.Store{st}, int64(1), nil)

	premium := true
	results, total, err := service.List(ctx, StoreListQuery{Premium: &premium})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
}
