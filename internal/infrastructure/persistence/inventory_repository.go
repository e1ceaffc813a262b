package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRuleRepository implements AlertRuleRepository using GORM
type GormAlertRuleRepository struct {
	db *gorm.DB
}

// NewGormAlertRuleRepository creates a new GormAlertRuleRepository
func NewGormAlertRuleRepository(db *gorm.DB) *GormAlertRuleRepository {
	return &GormAlertRuleRepository{db: db}
}

// Create creates a new alert rule
func (r *GormAlertRuleRepository) Create(ctx context.Context, rule *inventory.AlertRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Update updates an existing alert rule
func (r *GormAlertRuleRepository) Update(ctx context.Context, rule *inventory.AlertRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes an alert rule
func (r *GormAlertRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&inventory.AlertRule{}, "id = ?", id).Error
}

// FindByID finds an alert rule by ID
func (r *GormAlertRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.AlertRule, error) {
	var rule inventory.AlertRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByStore finds all rules configured for a store
func (r *GormAlertRuleRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*inventory.AlertRule, error) {
	var rules []*inventory.AlertRule
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActiveByListing finds active rules watching a listing
func (r *GormAlertRuleRepository) FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]*inventory.AlertRule, error) {
	var rules []*inventory.AlertRule
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND active = true", listingID).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormAlertRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new alert
func (r *GormAlertRepository) Create(ctx context.Context, alert *inventory.Alert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(alert).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &alert.BaseAggregateRoot)
	})
}

// Update updates an existing alert
func (r *GormAlertRepository) Update(ctx context.Context, alert *inventory.Alert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(alert).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &alert.BaseAggregateRoot)
	})
}

// flushEvents writes recorded domain events to the outbox inside the
// surrounding transaction, then clears them from the aggregate
func (r *GormAlertRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
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

// FindByID finds an alert by ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Alert, error) {
	var alert inventory.Alert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindByStore finds alerts for a store, unacknowledged first
func (r *GormAlertRepository) FindByStore(ctx context.Context, storeID uuid.UUID, includeAcknowledged bool) ([]*inventory.Alert, error) {
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if !includeAcknowledged {
		query = query.Where("acknowledged = false")
	}

	var alerts []*inventory.Alert
	err := query.
		Order("acknowledged ASC, created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountUnacknowledged counts open alerts for a store
func (r *GormAlertRepository) CountUnacknowledged(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.Alert{}).
		Where("store_id = ? AND acknowledged = false", storeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsOpenForRule checks whether the rule already has an open alert
func (r *GormAlertRepository) ExistsOpenForRule(ctx context.Context, ruleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.Alert{}).
		Where("rule_id = ? AND acknowledged = false", ruleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement row
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByStore finds movements for a store, newest first
func (r *GormStockMovementRepository) FindByStore(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]*inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var movements []*inventory.StockMovement
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// FindByListing finds movements for a listing, newest first
func (r *GormStockMovementRepository) FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*inventory.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var movements []*inventory.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// GormStockReservationRepository implements StockReservationRepository using GORM
type GormStockReservationRepository struct {
	db *gorm.DB
}

// NewGormStockReservationRepository creates a new GormStockReservationRepository
func NewGormStockReservationRepository(db *gorm.DB) *GormStockReservationRepository {
	return &GormStockReservationRepository{db: db}
}

// Create creates a new reservation
func (r *GormStockReservationRepository) Create(ctx context.Context, reservation *inventory.StockReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Update updates an existing reservation
func (r *GormStockReservationRepository) Update(ctx context.Context, reservation *inventory.StockReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// FindByOrder finds all reservations held for an order
func (r *GormStockReservationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.StockReservation, error) {
	var reservations []*inventory.StockReservation
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ActiveQuantityByListing sums active reserved units for a listing
func (r *GormStockReservationRepository) ActiveQuantityByListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&inventory.StockReservation{}).
		Select("SUM(quantity)").
		Where("listing_id = ? AND released = false AND consumed = false AND expire_at > ?",
			listingID, time.Now()).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return int(*total), nil
}

// FindExpired finds active reservations past their expiry
func (r *GormStockReservationRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.StockReservation, error) {
	query := r.db.WithContext(ctx).
		Where("released = false AND consumed = false AND expire_at <= ?", now).
		Order("expire_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reservations []*inventory.StockReservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}
