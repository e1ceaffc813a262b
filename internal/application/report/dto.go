package report

import (
	"time"

	"github.com/baysoko/backend/internal/domain/report"
	"github.com/google/uuid"
)

// defaultReportDays is the period used when a query gives no dates
const defaultReportDays = 30

// maxRankingRows caps best-seller rankings
const maxRankingRows = 50

// SalesReportQuery represents the request filter for sales reports
type SalesReportQuery struct {
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	ListingID  *uuid.UUID `form:"listing_id"`
	CategoryID *uuid.UUID `form:"category_id"`
	TopN       int        `form:"top_n,default=10" binding:"omitempty,min=1"`
}

// StockReportQuery represents the request filter for stock reports
type StockReportQuery struct {
	CategoryID   *uuid.UUID `form:"category_id"`
	LowStockOnly bool       `form:"low_stock_only"`
	Threshold    int        `form:"threshold,default=5" binding:"omitempty,min=1"`
}

// EarningsReportQuery represents the request filter for earnings reports
type EarningsReportQuery struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// SalesReportResponse bundles a store's sales figures for a period
type SalesReportResponse struct {
	Summary  *report.SalesSummary         `json:"summary"`
	Daily    []report.DailySalesTrend     `json:"daily"`
	TopItems []report.ListingSalesRanking `json:"top_items"`
}

// EarningsReportResponse bundles a seller's money position
type EarningsReportResponse struct {
	Summary *report.EarningsSummary       `json:"summary"`
	Monthly []report.MonthlyEarningsTrend `json:"monthly"`
	Escrows []report.EscrowAgingRow       `json:"escrows"`
}

// StockReportResponse bundles a store's stock position
type StockReportResponse struct {
	Summary  *report.StockSummary     `json:"summary"`
	Listings []report.ListingStockRow `json:"listings"`
}

// DashboardResponse is the seller home screen overview
type DashboardResponse struct {
	Sales    *report.SalesSummary    `json:"sales"`
	Stock    *report.StockSummary    `json:"stock"`
	Earnings *report.EarningsSummary `json:"earnings"`
	Period   ReportPeriod            `json:"period"`
}

// ReportPeriod echoes the resolved reporting window
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// resolvePeriod fills missing dates with a trailing window ending now
func resolvePeriod(start, end *time.Time) (time.Time, time.Time) {
	resolvedEnd := time.Now()
	if end != nil {
		resolvedEnd = *end
	}
	resolvedStart := resolvedEnd.AddDate(0, 0, -defaultReportDays)
	if start != nil {
		resolvedStart = *start
	}
	return resolvedStart, resolvedEnd
}
