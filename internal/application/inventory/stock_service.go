package inventory

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService handles seller stock corrections and the audit trail
type StockService struct {
	listingRepo  catalog.ListingRepository
	storeRepo    store.StoreRepository
	movementRepo inventory.StockMovementRepository
	alerts       *AlertService
	logger       *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	listingRepo catalog.ListingRepository,
	storeRepo store.StoreRepository,
	movementRepo inventory.StockMovementRepository,
	alerts *AlertService,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		listingRepo:  listingRepo,
		storeRepo:    storeRepo,
		movementRepo: movementRepo,
		alerts:       alerts,
		logger:       logger,
	}
}

// AdjustStock sets a listing's stock to an absolute level, writes the
// audit row, and re-evaluates the listing's alert rules.
func (s *StockService) AdjustStock(ctx context.Context, sellerID, listingID uuid.UUID, req *AdjustStockRequest) (*StockMovementResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, shared.NewDomainError("NOT_LISTING_SELLER", "Only the seller can adjust this listing")
	}

	newStock := *req.NewStock
	previous := listing.Stock
	if newStock == previous {
		return nil, shared.NewDomainError("NO_CHANGE", "Stock level did not change")
	}

	if err := listing.AdjustStock(newStock); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(
		listing.StoreID, listing.ID,
		inventory.MovementTypeAdjustment,
		previous, newStock,
		req.Notes, &sellerID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	if s.alerts != nil {
		if err := s.alerts.EvaluateListing(ctx, listing.ID, newStock); err != nil {
			s.logger.Warn("alert evaluation failed after adjustment",
				zap.String("listing_id", listing.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("stock adjusted",
		zap.String("listing_id", listing.ID.String()),
		zap.Int("previous", previous),
		zap.Int("new", newStock))

	resp := ToStockMovementResponse(movement)
	return &resp, nil
}

// RecordSale appends a sale movement after order payment decrements
// stock. Failures only warn; the stock change already happened.
func (s *StockService) RecordSale(ctx context.Context, storeID, listingID uuid.UUID, previous, current int, orderRef string) {
	movement, err := inventory.NewStockMovement(
		storeID, listingID,
		inventory.MovementTypeSale,
		previous, current,
		orderRef, nil,
	)
	if err != nil {
		s.logger.Warn("invalid sale movement",
			zap.String("listing_id", listingID.String()),
			zap.Error(err))
		return
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		s.logger.Warn("failed to record sale movement",
			zap.String("listing_id", listingID.String()),
			zap.Error(err))
		return
	}

	if s.alerts != nil {
		if err := s.alerts.EvaluateListing(ctx, listingID, current); err != nil {
			s.logger.Warn("alert evaluation failed after sale",
				zap.String("listing_id", listingID.String()),
				zap.Error(err))
		}
	}
}

// ListMovements returns a page of the store's stock audit trail
func (s *StockService) ListMovements(ctx context.Context, sellerID, storeID uuid.UUID, query *MovementListQuery) (*MovementListResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(sellerID) {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "You do not own this store")
	}

	movements, total, err := s.movementRepo.FindByStore(ctx, storeID, query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToStockMovementResponse(m)
	}
	return &MovementListResponse{
		Movements: responses,
		Total:     total,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}, nil
}
