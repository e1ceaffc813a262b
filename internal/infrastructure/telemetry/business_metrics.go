// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the marketplace.
// It tracks order creation, payment activity, and stock health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal *Counter
	orderAmountTotal  *Counter
	paymentTotal      *Counter

	// Gauge metrics (point-in-time values)
	stockReservedQuantity *Gauge
	lowStockListingCount  *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	stockProvider StockMetricsProvider
}

// StockMetricsProvider provides stock data for periodic metrics collection.
// This interface lets the telemetry layer query stock state without
// depending on the inventory domain directly.
type StockMetricsProvider interface {
	// GetReservedQuantityByStore returns active reserved stock per store
	GetReservedQuantityByStore(ctx context.Context) (map[uuid.UUID]int64, error)

	// GetLowStockCountByStore returns the count of active listings at or
	// below the threshold, per store
	GetLowStockCountByStore(ctx context.Context, threshold int) (map[uuid.UUID]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	LowStockThreshold int           // Default: 5
	StockProvider     StockMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		stockProvider: cfg.StockProvider,
	}

	var err error

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"baysoko_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"baysoko_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"baysoko_payment_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Stock gauge metrics
	bm.stockReservedQuantity, err = NewGauge(
		cfg.Meter,
		"baysoko_stock_reserved_quantity",
		"Stock currently held by pending checkouts",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.lowStockListingCount, err = NewGauge(
		cfg.Meter,
		"baysoko_low_stock_listing_count",
		"Number of active listings at or below the low stock threshold",
		"{listings}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderKind distinguishes regular orders from subscription charges for
// metrics labeling.
type OrderKind string

const (
	OrderKindMarketplace  OrderKind = "marketplace"
	OrderKindSubscription OrderKind = "subscription"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, kind OrderKind) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrOrderKind.String(string(kind)),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, kind OrderKind, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrOrderKind.String(string(kind)),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, kind OrderKind, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, kind)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, kind, amountCents)
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentOutcome represents the outcome of a payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// RecordPayment records a payment transaction.
// This should be called when a payment callback is processed.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, paymentMethod string, outcome PaymentOutcome) {
	bm.paymentTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// =============================================================================
// Stock Metrics
// =============================================================================

// RecordReservedQuantity records the active reserved stock for a store.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordReservedQuantity(ctx context.Context, storeID uuid.UUID, quantity int64) {
	bm.stockReservedQuantity.Record(ctx, quantity,
		AttrStoreID.String(storeID.String()),
	)
}

// RecordLowStockCount records the number of listings at or below the threshold.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, storeID uuid.UUID, count int64) {
	bm.lowStockListingCount.Record(ctx, count,
		AttrStoreID.String(storeID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects stock metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration, lowStockThreshold int) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		if lowStockThreshold <= 0 {
			lowStockThreshold = 5
		}

		go bm.runPeriodicCollection(ctx, interval, lowStockThreshold)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration, lowStockThreshold int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectStockMetrics(ctx, lowStockThreshold)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx, lowStockThreshold)
		}
	}
}

// collectStockMetrics collects stock gauge metrics across all stores.
func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context, lowStockThreshold int) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	reservedByStore, err := bm.stockProvider.GetReservedQuantityByStore(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get reserved stock for metrics collection", zap.Error(err))
	} else {
		for storeID, quantity := range reservedByStore {
			bm.RecordReservedQuantity(ctx, storeID, quantity)
		}
	}

	lowStockByStore, err := bm.stockProvider.GetLowStockCountByStore(ctx, lowStockThreshold)
	if err != nil {
		bm.logger.Warn("Failed to get low stock counts for metrics collection", zap.Error(err))
	} else {
		for storeID, count := range lowStockByStore {
			bm.RecordLowStockCount(ctx, storeID, count)
		}
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	AttrOrderKind = attribute.Key("order_kind")
)
