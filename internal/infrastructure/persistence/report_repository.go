package persistence

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses that count as sold when aggregating store reports.
// Pending orders have no confirmed payment and cancelled orders never
// completed.
var soldOrderStatuses = []string{
	"paid", "confirmed", "partially_shipped", "shipped", "delivered", "disputed",
}

// GormSalesReportRepository implements SalesReportRepository with raw
// aggregation queries over orders and order items
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// GetSalesSummary returns the aggregated sales summary for the period
func (r *GormSalesReportRepository) GetSalesSummary(ctx context.Context, filter report.SalesReportFilter) (*report.SalesSummary, error) {
	var row struct {
		TotalOrders     int64
		DeliveredOrders int64
		CancelledOrders int64
		PaidOrders      int64
		ItemsSold       int64
		GrossSales      decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.store_id = ?", filter.StoreID).
		Where("o.created_at >= ? AND o.created_at <= ?", filter.StartDate, filter.EndDate)
	query = applySalesItemFilters(query, filter)

	err := query.
		Select(`
			COUNT(DISTINCT o.id) AS total_orders,
			COUNT(DISTINCT o.id) FILTER (WHERE o.status = 'delivered') AS delivered_orders,
			COUNT(DISTINCT o.id) FILTER (WHERE o.status = 'cancelled') AS cancelled_orders,
			COUNT(DISTINCT o.id) FILTER (WHERE o.status IN ?) AS paid_orders,
			COALESCE(SUM(oi.quantity) FILTER (WHERE o.status IN ?), 0) AS items_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price) FILTER (WHERE o.status IN ?), 0) AS gross_sales`,
			soldOrderStatuses, soldOrderStatuses, soldOrderStatuses).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := &report.SalesSummary{
		StoreID:         filter.StoreID,
		PeriodStart:     filter.StartDate,
		PeriodEnd:       filter.EndDate,
		TotalOrders:     row.TotalOrders,
		DeliveredOrders: row.DeliveredOrders,
		CancelledOrders: row.CancelledOrders,
		ItemsSold:       row.ItemsSold,
		GrossSales:      row.GrossSales,
		AvgOrderValue:   decimal.Zero,
	}
	if row.PaidOrders > 0 {
		summary.AvgOrderValue = row.GrossSales.
			Div(decimal.NewFromInt(row.PaidOrders)).
			Round(2)
	}
	return summary, nil
}

// GetDailySalesTrend returns per-day sales within the period
func (r *GormSalesReportRepository) GetDailySalesTrend(ctx context.Context, filter report.SalesReportFilter) ([]report.DailySalesTrend, error) {
	query := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.store_id = ?", filter.StoreID).
		Where("o.status IN ?", soldOrderStatuses).
		Where("o.created_at >= ? AND o.created_at <= ?", filter.StartDate, filter.EndDate)
	query = applySalesItemFilters(query, filter)

	var trend []report.DailySalesTrend
	err := query.
		Select(`
			DATE_TRUNC('day', o.created_at) AS date,
			COUNT(DISTINCT o.id) AS order_count,
			COALESCE(SUM(oi.quantity), 0) AS items_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_amount`).
		Group("DATE_TRUNC('day', o.created_at)").
		Order("date ASC").
		Scan(&trend).Error
	if err != nil {
		return nil, err
	}
	return trend, nil
}

// GetListingSalesRanking returns the store's best selling listings
func (r *GormSalesReportRepository) GetListingSalesRanking(ctx context.Context, filter report.SalesReportFilter) ([]report.ListingSalesRanking, error) {
	topN := filter.TopN
	if topN <= 0 || topN > 100 {
		topN = 10
	}

	query := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("LEFT JOIN listings l ON l.id = oi.listing_id").
		Joins("LEFT JOIN categories c ON c.id = l.category_id").
		Where("oi.store_id = ?", filter.StoreID).
		Where("o.status IN ?", soldOrderStatuses).
		Where("o.created_at >= ? AND o.created_at <= ?", filter.StartDate, filter.EndDate)
	query = applySalesItemFilters(query, filter)

	var rows []report.ListingSalesRanking
	err := query.
		Select(`
			oi.listing_id,
			MAX(oi.title) AS listing_title,
			COALESCE(MAX(c.name), '') AS category_name,
			COALESCE(SUM(oi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_amount,
			COUNT(DISTINCT o.id) AS order_count,
			COALESCE(MAX(l.views), 0) AS current_views`).
		Group("oi.listing_id").
		Order("quantity_sold DESC, total_amount DESC").
		Limit(topN).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func applySalesItemFilters(query *gorm.DB, filter report.SalesReportFilter) *gorm.DB {
	if filter.ListingID != nil {
		query = query.Where("oi.listing_id = ?", *filter.ListingID)
	}
	if filter.CategoryID != nil {
		query = query.Where("oi.listing_id IN (SELECT id FROM listings WHERE category_id = ?)", *filter.CategoryID)
	}
	return query
}

// GormEarningsReportRepository implements EarningsReportRepository with
// raw aggregation queries over order items and escrows
type GormEarningsReportRepository struct {
	db *gorm.DB
}

// NewGormEarningsReportRepository creates a new GormEarningsReportRepository
func NewGormEarningsReportRepository(db *gorm.DB) *GormEarningsReportRepository {
	return &GormEarningsReportRepository{db: db}
}

// storeOrderIDs scopes escrow queries to orders carrying the store's items
const storeOrderIDs = "(SELECT DISTINCT order_id FROM order_items WHERE store_id = ?)"

// GetEarningsSummary returns the seller's money position for the period
func (r *GormEarningsReportRepository) GetEarningsSummary(ctx context.Context, filter report.EarningsReportFilter) (*report.EarningsSummary, error) {
	var sales struct {
		GrossSales     decimal.Decimal
		PendingPayment decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.store_id = ?", filter.StoreID).
		Where("o.created_at >= ? AND o.created_at <= ?", filter.StartDate, filter.EndDate).
		Select(`
			COALESCE(SUM(oi.quantity * oi.unit_price) FILTER (WHERE o.status IN ?), 0) AS gross_sales,
			COALESCE(SUM(oi.quantity * oi.unit_price) FILTER (WHERE o.status = 'pending'), 0) AS pending_payment`,
			soldOrderStatuses).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}

	var escrow struct {
		InEscrow decimal.Decimal
		Released decimal.Decimal
		Refunded decimal.Decimal
		Disputed decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Table("escrows e").
		Where("e.order_id IN "+storeOrderIDs, filter.StoreID).
		Where("e.created_at >= ? AND e.created_at <= ?", filter.StartDate, filter.EndDate).
		Select(`
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'held'), 0) AS in_escrow,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'released'), 0) AS released,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'refunded'), 0) AS refunded,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'disputed'), 0) AS disputed`).
		Scan(&escrow).Error
	if err != nil {
		return nil, err
	}

	return &report.EarningsSummary{
		StoreID:        filter.StoreID,
		PeriodStart:    filter.StartDate,
		PeriodEnd:      filter.EndDate,
		GrossSales:     sales.GrossSales,
		InEscrow:       escrow.InEscrow,
		Released:       escrow.Released,
		Refunded:       escrow.Refunded,
		Disputed:       escrow.Disputed,
		PendingPayment: sales.PendingPayment,
	}, nil
}

// GetMonthlyEarningsTrend returns per-month earnings for the period
func (r *GormEarningsReportRepository) GetMonthlyEarningsTrend(ctx context.Context, filter report.EarningsReportFilter) ([]report.MonthlyEarningsTrend, error) {
	type monthRow struct {
		Year       int
		Month      int
		GrossSales decimal.Decimal
		OrderCount int64
	}
	var salesRows []monthRow
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.store_id = ?", filter.StoreID).
		Where("o.status IN ?", soldOrderStatuses).
		Where("o.created_at >= ? AND o.created_at <= ?", filter.StartDate, filter.EndDate).
		Select(`
			EXTRACT(YEAR FROM o.created_at)::int AS year,
			EXTRACT(MONTH FROM o.created_at)::int AS month,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS gross_sales,
			COUNT(DISTINCT o.id) AS order_count`).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&salesRows).Error
	if err != nil {
		return nil, err
	}

	type escrowRow struct {
		Year     int
		Month    int
		Released decimal.Decimal
		Refunded decimal.Decimal
	}
	var escrowRows []escrowRow
	err = r.db.WithContext(ctx).
		Table("escrows e").
		Where("e.order_id IN "+storeOrderIDs, filter.StoreID).
		Where("e.released_at IS NOT NULL").
		Where("e.released_at >= ? AND e.released_at <= ?", filter.StartDate, filter.EndDate).
		Select(`
			EXTRACT(YEAR FROM e.released_at)::int AS year,
			EXTRACT(MONTH FROM e.released_at)::int AS month,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'released'), 0) AS released,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'refunded'), 0) AS refunded`).
		Group("year, month").
		Scan(&escrowRows).Error
	if err != nil {
		return nil, err
	}

	escrowByMonth := make(map[[2]int]escrowRow, len(escrowRows))
	for _, row := range escrowRows {
		escrowByMonth[[2]int{row.Year, row.Month}] = row
	}

	trend := make([]report.MonthlyEarningsTrend, 0, len(salesRows))
	for _, row := range salesRows {
		entry := report.MonthlyEarningsTrend{
			Year:       row.Year,
			Month:      row.Month,
			GrossSales: row.GrossSales,
			Released:   decimal.Zero,
			Refunded:   decimal.Zero,
			OrderCount: row.OrderCount,
		}
		if esc, ok := escrowByMonth[[2]int{row.Year, row.Month}]; ok {
			entry.Released = esc.Released
			entry.Refunded = esc.Refunded
		}
		trend = append(trend, entry)
	}
	return trend, nil
}

// GetEscrowAging returns the store's held escrows oldest first
func (r *GormEarningsReportRepository) GetEscrowAging(ctx context.Context, filter report.EarningsReportFilter) ([]report.EscrowAgingRow, error) {
	type agingRow struct {
		EscrowID      uuid.UUID
		OrderID       uuid.UUID
		Amount        decimal.Decimal
		HeldSince     time.Time
		AutoReleaseAt *time.Time
		Status        string
	}
	var rows []agingRow
	err := r.db.WithContext(ctx).
		Table("escrows e").
		Where("e.order_id IN "+storeOrderIDs, filter.StoreID).
		Where("e.status IN ?", []string{"held", "disputed"}).
		Select(`
			e.id AS escrow_id,
			e.order_id,
			e.amount,
			e.created_at AS held_since,
			e.auto_release_at,
			e.status`).
		Order("e.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	aging := make([]report.EscrowAgingRow, 0, len(rows))
	for _, row := range rows {
		aging = append(aging, report.EscrowAgingRow{
			EscrowID:      row.EscrowID,
			OrderID:       row.OrderID,
			Amount:        row.Amount,
			HeldSince:     row.HeldSince,
			AutoReleaseAt: row.AutoReleaseAt,
			Disputed:      row.Status == "disputed",
		})
	}
	return aging, nil
}

// GormStockReportRepository implements StockReportRepository with raw
// aggregation queries over listings and reservations
type GormStockReportRepository struct {
	db *gorm.DB
}

// NewGormStockReportRepository creates a new GormStockReportRepository
func NewGormStockReportRepository(db *gorm.DB) *GormStockReportRepository {
	return &GormStockReportRepository{db: db}
}

// GetStockSummary returns aggregated stock statistics
func (r *GormStockReportRepository) GetStockSummary(ctx context.Context, filter report.StockReportFilter) (*report.StockSummary, error) {
	threshold := filter.Threshold
	if threshold <= 0 {
		threshold = 5
	}

	query := r.db.WithContext(ctx).
		Table("listings l").
		Where("l.store_id = ?", filter.StoreID).
		Where("l.status != 'deleted'")
	if filter.CategoryID != nil {
		query = query.Where("l.category_id = ?", *filter.CategoryID)
	}

	var row struct {
		TotalListings   int64
		InStockListings int64
		LowStockCount   int64
		SoldOutCount    int64
		TotalUnits      int64
		StockValue      decimal.Decimal
	}
	err := query.
		Select(`
			COUNT(*) AS total_listings,
			COUNT(*) FILTER (WHERE l.stock > 0) AS in_stock_listings,
			COUNT(*) FILTER (WHERE l.stock > 0 AND l.stock <= ?) AS low_stock_count,
			COUNT(*) FILTER (WHERE l.stock = 0) AS sold_out_count,
			COALESCE(SUM(l.stock), 0) AS total_units,
			COALESCE(SUM(l.stock * l.price), 0) AS stock_value`, threshold).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &report.StockSummary{
		StoreID:         filter.StoreID,
		TotalListings:   row.TotalListings,
		InStockListings: row.InStockListings,
		LowStockCount:   row.LowStockCount,
		SoldOutCount:    row.SoldOutCount,
		TotalUnits:      row.TotalUnits,
		StockValue:      row.StockValue,
	}, nil
}

// GetListingStockReport returns per-listing stock rows
func (r *GormStockReportRepository) GetListingStockReport(ctx context.Context, filter report.StockReportFilter) ([]report.ListingStockRow, error) {
	threshold := filter.Threshold
	if threshold <= 0 {
		threshold = 5
	}

	query := r.db.WithContext(ctx).
		Table("listings l").
		Joins("LEFT JOIN categories c ON c.id = l.category_id").
		Where("l.store_id = ?", filter.StoreID).
		Where("l.status != 'deleted'")
	if filter.CategoryID != nil {
		query = query.Where("l.category_id = ?", *filter.CategoryID)
	}
	if filter.LowStockOnly {
		query = query.Where("l.stock <= ?", threshold)
	}

	type stockRow struct {
		ListingID    uuid.UUID
		ListingTitle string
		CategoryName string
		Stock        int
		Reserved     int
		UnitPrice    decimal.Decimal
		SoldLast30d  int64
	}
	var rows []stockRow
	err := query.
		Select(`
			l.id AS listing_id,
			l.title AS listing_title,
			COALESCE(c.name, '') AS category_name,
			l.stock,
			COALESCE((
				SELECT SUM(sr.quantity) FROM stock_reservations sr
				WHERE sr.listing_id = l.id
				  AND sr.released = false AND sr.consumed = false
				  AND sr.expire_at > NOW()
			), 0) AS reserved,
			l.price AS unit_price,
			COALESCE((
				SELECT SUM(oi.quantity) FROM order_items oi
				JOIN orders o ON o.id = oi.order_id
				WHERE oi.listing_id = l.id
				  AND o.status IN ?
				  AND o.created_at >= NOW() - INTERVAL '30 days'
			), 0) AS sold_last_30d`, soldOrderStatuses).
		Order("l.stock ASC, l.title ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]report.ListingStockRow, 0, len(rows))
	for _, row := range rows {
		available := row.Stock - row.Reserved
		if available < 0 {
			available = 0
		}
		result = append(result, report.ListingStockRow{
			ListingID:    row.ListingID,
			ListingTitle: row.ListingTitle,
			CategoryName: row.CategoryName,
			Stock:        row.Stock,
			Reserved:     row.Reserved,
			Available:    available,
			UnitPrice:    row.UnitPrice,
			StockValue:   row.UnitPrice.Mul(decimal.NewFromInt(int64(row.Stock))),
			SoldLast30d:  row.SoldLast30d,
		})
	}
	return result, nil
}
