package catalog

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *catalog.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *catalog.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindFeatured(ctx context.Context, limit int) ([]*catalog.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindTrending(ctx context.Context, limit int) ([]*catalog.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) UnfeatureByStore(ctx context.Context, storeID uuid.UUID) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, st *store.Store) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStoreRepository) Update(ctx context.Context, st *store.Store) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindBySlug(ctx context.Context, slug string) (*store.Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*store.Store, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter store.StoreFilter) ([]*store.Store, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*store.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoreRepository) OwnerHasPremiumStore(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindCurrentByStore(ctx context.Context, storeID uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) OwnerEverTrialed(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) FindExpiredTrials(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindExpiredPeriods(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) HasActiveByStore(ctx context.Context, storeID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, storeID, now)
	return args.Bool(0), args.Error(1)
}

type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) Create(ctx context.Context, entry *catalog.PriceHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*catalog.PriceHistory, error) {
	args := m.Called(ctx, listingID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *catalog.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*catalog.Favorite, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.Favorite), args.Get(1).(int64), args.Error(2)
}

func (m *MockFavoriteRepository) CountByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRecentlyViewedRepository struct {
	mock.Mock
}

func (m *MockRecentlyViewedRepository) Upsert(ctx context.Context, entry *catalog.RecentlyViewed) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRecentlyViewedRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*catalog.RecentlyViewed, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.RecentlyViewed), args.Error(1)
}

func (m *MockRecentlyViewedRepository) TrimByUser(ctx context.Context, userID uuid.UUID, keep int) error {
	args := m.Called(ctx, userID, keep)
	return args.Error(0)
}

func (m *MockRecentlyViewedRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockListingImageRepository struct {
	mock.Mock
}

func (m *MockListingImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ListingImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ListingImage, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) FindByListing(ctx context.Context, listingID uuid.UUID) ([]catalog.ListingImage, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]catalog.ListingImage, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) FindMainImage(ctx context.Context, listingID uuid.UUID) (*catalog.ListingImage, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) CountActiveByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingImageRepository) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingImageRepository) FindStalePending(ctx context.Context, olderThanSeconds int, limit int) ([]catalog.ListingImage, error) {
	args := m.Called(ctx, olderThanSeconds, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ListingImage), args.Error(1)
}

func (m *MockListingImageRepository) Save(ctx context.Context, image *catalog.ListingImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockListingImageRepository) SaveBatch(ctx context.Context, images []*catalog.ListingImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *MockListingImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingImageRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindActive(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindFeatured(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasListings(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
