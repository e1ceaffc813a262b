package payment

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of payment.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindStaleInitiated(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

// MockEscrowRepository is a mock implementation of payment.EscrowRepository
type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) Create(ctx context.Context, escrow *payment.Escrow) error {
	args := m.Called(ctx, escrow)
	return args.Error(0)
}

func (m *MockEscrowRepository) Update(ctx context.Context, escrow *payment.Escrow) error {
	args := m.Called(ctx, escrow)
	return args.Error(0)
}

func (m *MockEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Escrow, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*payment.Escrow, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Escrow), args.Error(1)
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

// MockMpesaGateway is a mock implementation of payment.MpesaGateway
type MockMpesaGateway struct {
	mock.Mock
}

func (m *MockMpesaGateway) STKPush(ctx context.Context, req *payment.STKPushRequest) (*payment.STKPushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.STKPushResponse), args.Error(1)
}

func (m *MockMpesaGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*payment.QueryResponse, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.QueryResponse), args.Error(1)
}

func (m *MockMpesaGateway) ParseCallback(ctx context.Context, payload []byte) (*payment.STKCallback, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.STKCallback), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockOrderSettler is a mock implementation of OrderSettler
type MockOrderSettler struct {
	mock.Mock
}

func (m *MockOrderSettler) MarkPaidFromPayment(ctx context.Context, pay *payment.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}

func (m *MockOrderSettler) ReleaseForFailedPayment(ctx context.Context, pay *payment.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}

// MockSubscriptionActivator is a mock implementation of SubscriptionActivator
type MockSubscriptionActivator struct {
	mock.Mock
}

func (m *MockSubscriptionActivator) ActivateFromPayment(ctx context.Context, pay *payment.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}

func (m *MockSubscriptionActivator) HandleFailedPayment(ctx context.Context, pay *payment.Payment) error {
	args := m.Called(ctx, pay)
	return args.Error(0)
}
