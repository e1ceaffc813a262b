package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryRequestRepository implements DeliveryRequestRepository using GORM
type GormDeliveryRequestRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormDeliveryRequestRepository creates a new GormDeliveryRequestRepository
func NewGormDeliveryRequestRepository(db *gorm.DB) *GormDeliveryRequestRepository {
	return &GormDeliveryRequestRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormDeliveryRequestRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates a new delivery request with its history
func (r *GormDeliveryRequestRepository) Create(ctx context.Context, request *delivery.DeliveryRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &request.BaseAggregateRoot)
	})
}

// Update updates an existing delivery request
func (r *GormDeliveryRequestRepository) Update(ctx context.Context, request *delivery.DeliveryRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(request).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &request.BaseAggregateRoot)
	})
}

// flushEvents writes recorded domain events to the outbox inside the
// surrounding transaction, then clears them from the aggregate
func (r *GormDeliveryRequestRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
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

// FindByID finds a delivery request by ID
func (r *GormDeliveryRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.DeliveryRequest, error) {
	var request delivery.DeliveryRequest
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByOrder finds the delivery request for an order
func (r *GormDeliveryRequestRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*delivery.DeliveryRequest, error) {
	var request delivery.DeliveryRequest
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&request, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByTrackingNumber finds a delivery request by tracking number
func (r *GormDeliveryRequestRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.DeliveryRequest, error) {
	var request delivery.DeliveryRequest
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&request, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll finds delivery requests matching the filter
func (r *GormDeliveryRequestRepository) FindAll(ctx context.Context, filter delivery.DeliveryFilter) ([]*delivery.DeliveryRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&delivery.DeliveryRequest{})

	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.ZoneID != nil {
		query = query.Where("zone_id = ?", *filter.ZoneID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, DeliverySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var requests []*delivery.DeliveryRequest
	err := query.
		Order(sortBy + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// FindOpenByZone finds live deliveries assigned to a zone
func (r *GormDeliveryRequestRepository) FindOpenByZone(ctx context.Context, zoneID uuid.UUID) ([]*delivery.DeliveryRequest, error) {
	var requests []*delivery.DeliveryRequest
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND status NOT IN ?", zoneID, []delivery.Status{
			delivery.StatusDelivered,
			delivery.StatusCancelled,
			delivery.StatusReturned,
		}).
		Order("priority DESC, created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// GormZoneRepository implements ZoneRepository using GORM
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GormZoneRepository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// Create creates a new zone
func (r *GormZoneRepository) Create(ctx context.Context, zone *delivery.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

// Update updates an existing zone
func (r *GormZoneRepository) Update(ctx context.Context, zone *delivery.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

// Delete removes a zone
func (r *GormZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&delivery.Zone{}, "id = ?", id).Error
}

// FindByID finds a zone by ID
func (r *GormZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Zone, error) {
	var zone delivery.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// FindActive finds all zones currently accepting deliveries
func (r *GormZoneRepository) FindActive(ctx context.Context) ([]*delivery.Zone, error) {
	var zones []*delivery.Zone
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("name ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// FindByName finds a zone by its unique name
func (r *GormZoneRepository) FindByName(ctx context.Context, name string) (*delivery.Zone, error) {
	var zone delivery.Zone
	if err := r.db.WithContext(ctx).First(&zone, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// GormWebhookLogRepository implements WebhookLogRepository using GORM
type GormWebhookLogRepository struct {
	db *gorm.DB
}

// NewGormWebhookLogRepository creates a new GormWebhookLogRepository
func NewGormWebhookLogRepository(db *gorm.DB) *GormWebhookLogRepository {
	return &GormWebhookLogRepository{db: db}
}

// Create creates a new webhook log
func (r *GormWebhookLogRepository) Create(ctx context.Context, log *delivery.WebhookLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Update updates an existing webhook log
func (r *GormWebhookLogRepository) Update(ctx context.Context, log *delivery.WebhookLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// FindByID finds a webhook log by ID
func (r *GormWebhookLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.WebhookLog, error) {
	var log delivery.WebhookLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindByOrder finds all webhook logs for an order, newest first
func (r *GormWebhookLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*delivery.WebhookLog, error) {
	var logs []*delivery.WebhookLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// FindDueForRetry finds failed logs whose retry time has passed
func (r *GormWebhookLogRepository) FindDueForRetry(ctx context.Context, now time.Time, limit int) ([]*delivery.WebhookLog, error) {
	var logs []*delivery.WebhookLog
	query := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			delivery.WebhookStatusFailed, now).
		Order("next_retry_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
