package delivery

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDeliveryRequestRepository is a mock implementation of delivery.DeliveryRequestRepository
type MockDeliveryRequestRepository struct {
	mock.Mock
}

func (m *MockDeliveryRequestRepository) Create(ctx context.Context, request *delivery.DeliveryRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDeliveryRequestRepository) Update(ctx context.Context, request *delivery.DeliveryRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDeliveryRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.DeliveryRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRequestRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*delivery.DeliveryRequest, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRequestRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.DeliveryRequest, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRequestRepository) FindAll(ctx context.Context, filter delivery.DeliveryFilter) ([]*delivery.DeliveryRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*delivery.DeliveryRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockDeliveryRequestRepository) FindOpenByZone(ctx context.Context, zoneID uuid.UUID) ([]*delivery.DeliveryRequest, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.DeliveryRequest), args.Error(1)
}

// MockZoneRepository is a mock implementation of delivery.ZoneRepository
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) Create(ctx context.Context, zone *delivery.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}

func (m *MockZoneRepository) Update(ctx context.Context, zone *delivery.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}

func (m *MockZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Zone), args.Error(1)
}

func (m *MockZoneRepository) FindActive(ctx context.Context) ([]*delivery.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Zone), args.Error(1)
}

func (m *MockZoneRepository) FindByName(ctx context.Context, name string) (*delivery.Zone, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Zone), args.Error(1)
}

// MockWebhookLogRepository is a mock implementation of delivery.WebhookLogRepository
type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) Create(ctx context.Context, log *delivery.WebhookLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) Update(ctx context.Context, log *delivery.WebhookLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.WebhookLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.WebhookLog), args.Error(1)
}

func (m *MockWebhookLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*delivery.WebhookLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.WebhookLog), args.Error(1)
}

func (m *MockWebhookLogRepository) FindDueForRetry(ctx context.Context, now time.Time, limit int) ([]*delivery.WebhookLog, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.WebhookLog), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter order.OrderFilter) ([]*order.Order, int64, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter order.OrderFilter) ([]*order.Order, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter order.OrderFilter) ([]*order.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SalesCountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockWebhookDispatcher is a mock implementation of WebhookDispatcher
type MockWebhookDispatcher struct {
	mock.Mock
}

func (m *MockWebhookDispatcher) Dispatch(ctx context.Context, eventType string, payload []byte) (int, string, error) {
	args := m.Called(ctx, eventType, payload)
	return args.Int(0), args.String(1), args.Error(2)
}
