package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockSummary provides aggregated stock statistics for a store
type StockSummary struct {
	StoreID         uuid.UUID       `json:"store_id"`
	TotalListings   int64           `json:"total_listings"`
	InStockListings int64           `json:"in_stock_listings"`
	LowStockCount   int64           `json:"low_stock_count"`
	SoldOutCount    int64           `json:"sold_out_count"`
	TotalUnits      int64           `json:"total_units"`
	StockValue      decimal.Decimal `json:"stock_value"`
}

// ListingStockRow is one listing in a store's stock report
type ListingStockRow struct {
	ListingID    uuid.UUID       `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	CategoryName string          `json:"category_name,omitempty"`
	Stock        int             `json:"stock"`
	Reserved     int             `json:"reserved"`
	Available    int             `json:"available"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	StockValue   decimal.Decimal `json:"stock_value"`
	SoldLast30d  int64           `json:"sold_last_30d"`
}

// StockReportFilter defines filtering options for stock reports
type StockReportFilter struct {
	StoreID      uuid.UUID  `json:"-"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	LowStockOnly bool       `json:"low_stock_only,omitempty"`
	Threshold    int        `json:"threshold,omitempty"`
}

// StockReportRepository defines the interface for store stock queries
type StockReportRepository interface {
	// GetStockSummary returns aggregated stock statistics
	GetStockSummary(ctx context.Context, filter StockReportFilter) (*StockSummary, error)

	// GetListingStockReport returns per-listing stock rows
	GetListingStockReport(ctx context.Context, filter StockReportFilter) ([]ListingStockRow, error)
}
