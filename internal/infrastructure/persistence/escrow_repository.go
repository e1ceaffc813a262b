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

// GormEscrowRepository implements EscrowRepository using GORM
type GormEscrowRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormEscrowRepository creates a new GormEscrowRepository
func NewGormEscrowRepository(db *gorm.DB) *GormEscrowRepository {
	return &GormEscrowRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormEscrowRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new escrow
func (r *GormEscrowRepository) Create(ctx context.Context, escrow *payment.Escrow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(escrow).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &escrow.BaseAggregateRoot)
	})
}

// Update updates an existing escrow
func (r *GormEscrowRepository) Update(ctx context.Context, escrow *payment.Escrow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(escrow).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &escrow.BaseAggregateRoot)
	})
}

// flushEvents writes recorded domain events to the outbox inside the
// surrounding transaction, then clears them from the aggregate
func (r *GormEscrowRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if r.outboxSaver != nil {
		if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
			return err
		}
	}
	agg.ClearDomainEvents()
	return nil
}

// FindByID finds an escrow by ID
func (r *GormEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Escrow, error) {
	var escrow payment.Escrow
	if err := r.db.WithContext(ctx).First(&escrow, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

// FindByOrder finds the escrow for an order
func (r *GormEscrowRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Escrow, error) {
	var escrow payment.Escrow
	if err := r.db.WithContext(ctx).First(&escrow, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

// FindDueForAutoRelease finds held escrows whose auto-release deadline has passed
func (r *GormEscrowRepository) FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*payment.Escrow, error) {
	var escrows []*payment.Escrow
	query := r.db.WithContext(ctx).
		Where("status = ? AND auto_release_at IS NOT NULL AND auto_release_at <= ?",
			payment.EscrowStatusHeld, now).
		Order("auto_release_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&escrows).Error; err != nil {
		return nil, err
	}
	return escrows, nil
}
