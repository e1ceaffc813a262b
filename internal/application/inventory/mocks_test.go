package inventory

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAlertRuleRepository is a mock implementation of inventory.AlertRuleRepository
type MockAlertRuleRepository struct {
	mock.Mock
}

func (m *MockAlertRuleRepository) Create(ctx context.Context, rule *inventory.AlertRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAlertRuleRepository) Update(ctx context.Context, rule *inventory.AlertRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAlertRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlertRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.AlertRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.AlertRule), args.Error(1)
}

func (m *MockAlertRuleRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*inventory.AlertRule, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.AlertRule), args.Error(1)
}

func (m *MockAlertRuleRepository) FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]*inventory.AlertRule, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.AlertRule), args.Error(1)
}

// MockAlertRepository is a mock implementation of inventory.AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *inventory.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) Update(ctx context.Context, alert *inventory.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindByStore(ctx context.Context, storeID uuid.UUID, includeAcknowledged bool) ([]*inventory.Alert, error) {
	args := m.Called(ctx, storeID, includeAcknowledged)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Alert), args.Error(1)
}

func (m *MockAlertRepository) CountUnacknowledged(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) ExistsOpenForRule(ctx context.Context, ruleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ruleID)
	return args.Bool(0), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByStore(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]*inventory.StockMovement, int64, error) {
	args := m.Called(ctx, storeID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockMovementRepository) FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*inventory.StockMovement, error) {
	args := m.Called(ctx, listingID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockMovement), args.Error(1)
}

// MockStockReservationRepository is a mock implementation of inventory.StockReservationRepository
type MockStockReservationRepository struct {
	mock.Mock
}

func (m *MockStockReservationRepository) Create(ctx context.Context, reservation *inventory.StockReservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockStockReservationRepository) Update(ctx context.Context, reservation *inventory.StockReservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockStockReservationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.StockReservation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockReservation), args.Error(1)
}

func (m *MockStockReservationRepository) ActiveQuantityByListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	args := m.Called(ctx, listingID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockReservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.StockReservation, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockReservation), args.Error(1)
}

// MockListingRepository is a mock implementation of catalog.ListingRepository
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

// MockStoreRepository is a mock implementation of store.StoreRepository
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
