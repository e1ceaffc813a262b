package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create creates a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, pay *payment.Payment) error {
	return r.db.WithContext(ctx).Create(pay).Error
}

// Update updates an existing payment
func (r *GormPaymentRepository) Update(ctx context.Context, pay *payment.Payment) error {
	return r.db.WithContext(ctx).Save(pay).Error
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var pay payment.Payment
	if err := r.db.WithContext(ctx).First(&pay, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pay, nil
}

// FindByOrder finds the payment for an order
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	var pay payment.Payment
	if err := r.db.WithContext(ctx).First(&pay, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pay, nil
}

// FindByCheckoutRequestID finds a payment by its gateway correlation ID
func (r *GormPaymentRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
	var pay payment.Payment
	if err := r.db.WithContext(ctx).
		First(&pay, "checkout_request_id = ?", checkoutRequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pay, nil
}

// FindByTransactionID finds a payment by its M-Pesa receipt number
func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	var pay payment.Payment
	if err := r.db.WithContext(ctx).
		First(&pay, "transaction_id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pay, nil
}

// FindStaleInitiated finds payments stuck in initiated state past the cutoff
func (r *GormPaymentRepository) FindStaleInitiated(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	query := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", payment.StatusInitiated, cutoff).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
