package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver enables transactional event publishing through the outbox
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create creates an order with its items
func (r *GormOrderRepository) Create(ctx context.Context, ord *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ord).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &ord.BaseAggregateRoot)
	})
}

// Update updates an order and its items
func (r *GormOrderRepository) Update(ctx context.Context, ord *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(ord).Error; err != nil {
			return err
		}
		return r.flushEvents(ctx, tx, &ord.BaseAggregateRoot)
	})
}

// flushEvents writes recorded domain events to the outbox inside the
// surrounding transaction, then clears them from the aggregate
func (r *GormOrderRepository) flushEvents(ctx context.Context, tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
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

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ord, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindByBuyer returns a buyer's orders, newest first
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter order.OrderFilter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("buyer_id = ?", buyerID)
	return r.findFiltered(query, filter)
}

// FindByStore returns orders containing a store's items, newest first
func (r *GormOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter order.OrderFilter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id IN (?)", r.db.Model(&order.OrderItem{}).
			Select("DISTINCT order_id").
			Where("store_id = ?", storeID))
	return r.findFiltered(query, filter)
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.OrderFilter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.StoreID != nil {
		query = query.Where("id IN (?)", r.db.Model(&order.OrderItem{}).
			Select("DISTINCT order_id").
			Where("store_id = ?", *filter.StoreID))
	}
	return r.findFiltered(query, filter)
}

// CountByBuyer counts a buyer's orders
func (r *GormOrderRepository) CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("buyer_id = ?", buyerID).
		Count(&count).Error
	return count, err
}

// SalesCountByStore sums sold quantities across a store's order items
func (r *GormOrderRepository) SalesCountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).Model(&order.OrderItem{}).
		Select("SUM(order_items.quantity)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.store_id = ? AND orders.status = ?", storeID, order.OrderStatusDelivered).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *GormOrderRepository) findFiltered(query *gorm.DB, filter order.OrderFilter) ([]*order.Order, int64, error) {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var orders []*order.Order
	if err := query.
		Preload("Items").
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
