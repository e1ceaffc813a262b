package report

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/report"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService serves seller-facing reports. Every operation checks
// that the caller owns the store the report is about.
type ReportService struct {
	salesRepo    report.SalesReportRepository
	stockRepo    report.StockReportRepository
	earningsRepo report.EarningsReportRepository
	storeRepo    store.StoreRepository
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	salesRepo report.SalesReportRepository,
	stockRepo report.StockReportRepository,
	earningsRepo report.EarningsReportRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		salesRepo:    salesRepo,
		stockRepo:    stockRepo,
		earningsRepo: earningsRepo,
		storeRepo:    storeRepo,
		logger:       logger,
	}
}

// SalesReport returns the store's sales summary, daily trend and best
// sellers for the period
func (s *ReportService) SalesReport(ctx context.Context, sellerID, storeID uuid.UUID, query *SalesReportQuery) (*SalesReportResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	start, end := resolvePeriod(query.StartDate, query.EndDate)
	topN := query.TopN
	if topN <= 0 {
		topN = 10
	}
	if topN > maxRankingRows {
		topN = maxRankingRows
	}
	filter := report.SalesReportFilter{
		StoreID:    storeID,
		StartDate:  start,
		EndDate:    end,
		ListingID:  query.ListingID,
		CategoryID: query.CategoryID,
		TopN:       topN,
	}

	summary, err := s.salesRepo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	daily, err := s.salesRepo.GetDailySalesTrend(ctx, filter)
	if err != nil {
		return nil, err
	}
	ranking, err := s.salesRepo.GetListingSalesRanking(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &SalesReportResponse{
		Summary:  summary,
		Daily:    daily,
		TopItems: ranking,
	}, nil
}

// EarningsReport returns where the seller's money sits: gross sales,
// escrowed, released and refunded amounts, plus escrow aging
func (s *ReportService) EarningsReport(ctx context.Context, sellerID, storeID uuid.UUID, query *EarningsReportQuery) (*EarningsReportResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	start, end := resolvePeriod(query.StartDate, query.EndDate)
	filter := report.EarningsReportFilter{
		StoreID:   storeID,
		StartDate: start,
		EndDate:   end,
	}

	summary, err := s.earningsRepo.GetEarningsSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	monthly, err := s.earningsRepo.GetMonthlyEarningsTrend(ctx, filter)
	if err != nil {
		return nil, err
	}
	aging, err := s.earningsRepo.GetEscrowAging(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &EarningsReportResponse{
		Summary: summary,
		Monthly: monthly,
		Escrows: aging,
	}, nil
}

// StockReport returns the store's stock summary and per-listing rows
func (s *ReportService) StockReport(ctx context.Context, sellerID, storeID uuid.UUID, query *StockReportQuery) (*StockReportResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	threshold := query.Threshold
	if threshold <= 0 {
		threshold = 5
	}
	filter := report.StockReportFilter{
		StoreID:      storeID,
		CategoryID:   query.CategoryID,
		LowStockOnly: query.LowStockOnly,
		Threshold:    threshold,
	}

	summary, err := s.stockRepo.GetStockSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.stockRepo.GetListingStockReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &StockReportResponse{
		Summary:  summary,
		Listings: rows,
	}, nil
}

// Dashboard returns the seller home overview for the trailing month
func (s *ReportService) Dashboard(ctx context.Context, sellerID, storeID uuid.UUID) (*DashboardResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	start, end := resolvePeriod(nil, nil)

	sales, err := s.salesRepo.GetSalesSummary(ctx, report.SalesReportFilter{
		StoreID:   storeID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}
	stock, err := s.stockRepo.GetStockSummary(ctx, report.StockReportFilter{
		StoreID:   storeID,
		Threshold: 5,
	})
	if err != nil {
		return nil, err
	}
	earnings, err := s.earningsRepo.GetEarningsSummary(ctx, report.EarningsReportFilter{
		StoreID:   storeID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Sales:    sales,
		Stock:    stock,
		Earnings: earnings,
		Period:   ReportPeriod{Start: start, End: end},
	}, nil
}

func (s *ReportService) requireStoreOwner(ctx context.Context, sellerID, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return err
	}
	if !st.IsOwnedBy(sellerID) {
		return shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can view its reports")
	}
	return nil
}
