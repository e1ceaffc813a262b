package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary is a read model aggregating a store's order activity
// over a period. It is computed from paid orders only.
type SalesSummary struct {
	StoreID         uuid.UUID       `json:"store_id"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	TotalOrders     int64           `json:"total_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
	ItemsSold       int64           `json:"items_sold"`
	GrossSales      decimal.Decimal `json:"gross_sales"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
}

// DailySalesTrend represents one day of a store's sales trend
type DailySalesTrend struct {
	Date        time.Time       `json:"date"`
	OrderCount  int64           `json:"order_count"`
	ItemsSold   int64           `json:"items_sold"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ListingSalesRanking ranks a store's listings by sales
type ListingSalesRanking struct {
	Rank         int             `json:"rank"`
	ListingID    uuid.UUID       `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	CategoryName string          `json:"category_name,omitempty"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OrderCount   int64           `json:"order_count"`
	CurrentViews int64           `json:"current_views"`
}

// SalesReportFilter defines filtering options for store sales reports
type SalesReportFilter struct {
	StoreID    uuid.UUID  `json:"-"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	ListingID  *uuid.UUID `json:"listing_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	TopN       int        `json:"top_n,omitempty"`
}

// SalesReportRepository defines the interface for store sales queries
type SalesReportRepository interface {
	// GetSalesSummary returns the aggregated sales summary for the period
	GetSalesSummary(ctx context.Context, filter SalesReportFilter) (*SalesSummary, error)

	// GetDailySalesTrend returns per-day sales within the period
	GetDailySalesTrend(ctx context.Context, filter SalesReportFilter) ([]DailySalesTrend, error)

	// GetListingSalesRanking returns the store's best selling listings
	GetListingSalesRanking(ctx context.Context, filter SalesReportFilter) ([]ListingSalesRanking, error)
}
