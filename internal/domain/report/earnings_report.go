package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningsSummary is a read model of a seller's money position,
// broken down by where each shilling currently sits.
type EarningsSummary struct {
	StoreID        uuid.UUID       `json:"store_id"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	GrossSales     decimal.Decimal `json:"gross_sales"`
	InEscrow       decimal.Decimal `json:"in_escrow"`
	Released       decimal.Decimal `json:"released"`
	Refunded       decimal.Decimal `json:"refunded"`
	Disputed       decimal.Decimal `json:"disputed"`
	PendingPayment decimal.Decimal `json:"pending_payment"`
}

// MonthlyEarningsTrend represents one month of a seller's earnings
type MonthlyEarningsTrend struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	GrossSales decimal.Decimal `json:"gross_sales"`
	Released   decimal.Decimal `json:"released"`
	Refunded   decimal.Decimal `json:"refunded"`
	OrderCount int64           `json:"order_count"`
}

// EscrowAgingRow shows a held escrow and how close it is to
// auto-release.
type EscrowAgingRow struct {
	EscrowID      uuid.UUID       `json:"escrow_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	HeldSince     time.Time       `json:"held_since"`
	AutoReleaseAt *time.Time      `json:"auto_release_at,omitempty"`
	Disputed      bool            `json:"disputed"`
}

// EarningsReportFilter defines filtering options for earnings reports
type EarningsReportFilter struct {
	StoreID   uuid.UUID `json:"-"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// EarningsReportRepository defines the interface for seller earnings
// queries
type EarningsReportRepository interface {
	// GetEarningsSummary returns the seller's money position for the period
	GetEarningsSummary(ctx context.Context, filter EarningsReportFilter) (*EarningsSummary, error)

	// GetMonthlyEarningsTrend returns per-month earnings for the period
	GetMonthlyEarningsTrend(ctx context.Context, filter EarningsReportFilter) ([]MonthlyEarningsTrend, error)

	// GetEscrowAging returns the store's held escrows oldest first
	GetEscrowAging(ctx context.Context, filter EarningsReportFilter) ([]EscrowAgingRow, error)
}
