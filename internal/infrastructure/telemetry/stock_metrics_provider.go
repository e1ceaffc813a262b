// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the listings and stock_reservations tables directly for
// aggregated metrics.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// GetReservedQuantityByStore returns active reserved stock per store.
// A reservation is active while it is neither released nor consumed and
// has not yet expired.
func (p *GormStockMetricsProvider) GetReservedQuantityByStore(ctx context.Context) (map[uuid.UUID]int64, error) {
	type result struct {
		StoreID  uuid.UUID `gorm:"column:store_id"`
		Reserved int64     `gorm:"column:reserved"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("stock_reservations sr").
		Select("l.store_id, COALESCE(SUM(sr.quantity), 0) as reserved").
		Joins("JOIN listings l ON l.id = sr.listing_id").
		Where("sr.released = false AND sr.consumed = false AND sr.expire_at > NOW()").
		Group("l.store_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.StoreID] = r.Reserved
	}

	return m, nil
}

// GetLowStockCountByStore returns the count of active listings at or
// below the threshold, per store.
func (p *GormStockMetricsProvider) GetLowStockCountByStore(ctx context.Context, threshold int) (map[uuid.UUID]int64, error) {
	type result struct {
		StoreID uuid.UUID `gorm:"column:store_id"`
		Low     int64     `gorm:"column:low"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("listings").
		Select("store_id, COUNT(*) as low").
		Where("status = ? AND stock <= ?", "active", threshold).
		Group("store_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.StoreID] = r.Low
	}

	return m, nil
}
