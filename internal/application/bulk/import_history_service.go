package bulk

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stuckUploadAge is how long an upload may sit in processing before
// the recovery sweep fails it
const stuckUploadAge = 30 * time.Minute

// ImportHistoryService serves a store's upload history
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
	storeRepo   store.StoreRepository
	logger      *zap.Logger
}

// NewImportHistoryService creates a new ImportHistoryService
func NewImportHistoryService(
	historyRepo bulk.ImportHistoryRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *ImportHistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHistoryService{
		historyRepo: historyRepo,
		storeRepo:   storeRepo,
		logger:      logger,
	}
}

// ListUploads returns the store's uploads, newest first
func (s *ImportHistoryService) ListUploads(ctx context.Context, sellerID, storeID uuid.UUID, query *ImportHistoryQuery) (*ImportHistoryListResponse, error) {
	if err := s.requireStoreOwner(ctx, sellerID, storeID); err != nil {
		return nil, err
	}

	filter := bulk.ImportHistoryFilter{}
	if query.Status != "" {
		status := bulk.ImportStatus(query.Status)
		filter.Status = &status
	}
	page, pageSize := query.Page, query.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	result, err := s.historyRepo.FindByStore(ctx, storeID, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	uploads := make([]*ImportHistoryResponse, len(result.Items))
	for i, h := range result.Items {
		if err := h.SetErrorDetailsFromJSON(h.ErrorsJSON); err != nil {
			s.logger.Warn("Unreadable error details on upload record",
				zap.String("upload_id", h.ID.String()), zap.Error(err))
		}
		uploads[i] = ToImportHistoryResponse(h)
	}

	return &ImportHistoryListResponse{
		Uploads:  uploads,
		Total:    result.TotalCount,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetUpload returns one upload with its row errors
func (s *ImportHistoryService) GetUpload(ctx context.Context, sellerID, uploadID uuid.UUID) (*ImportHistoryResponse, error) {
	history, err := s.findOwnUpload(ctx, sellerID, uploadID)
	if err != nil {
		return nil, err
	}
	return ToImportHistoryResponse(history), nil
}

// CancelUpload cancels an upload that has not finished
func (s *ImportHistoryService) CancelUpload(ctx context.Context, sellerID, uploadID uuid.UUID) (*ImportHistoryResponse, error) {
	history, err := s.findOwnUpload(ctx, sellerID, uploadID)
	if err != nil {
		return nil, err
	}

	if err := history.Cancel(); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, err
	}

	return ToImportHistoryResponse(history), nil
}

// RecoverStuck fails uploads left in processing, e.g. after a crash
// mid-upload. Returns how many records were recovered.
func (s *ImportHistoryService) RecoverStuck(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-stuckUploadAge)
	stuck, err := s.historyRepo.FindStuck(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, history := range stuck {
		failErr := history.Fail([]bulk.ImportErrorDetail{{
			Code:    "INTERRUPTED",
			Message: "Upload was interrupted before finishing",
		}})
		if failErr != nil {
			continue
		}
		json, jsonErr := history.ErrorDetailsJSON()
		if jsonErr == nil {
			history.ErrorsJSON = json
		}
		if err := s.historyRepo.Save(ctx, history); err != nil {
			s.logger.Warn("Failed to recover stuck upload",
				zap.String("upload_id", history.ID.String()), zap.Error(err))
			continue
		}
		recovered++
	}

	if recovered > 0 {
		s.logger.Info("Recovered stuck uploads", zap.Int("count", recovered))
	}
	return recovered, nil
}

func (s *ImportHistoryService) findOwnUpload(ctx context.Context, sellerID, uploadID uuid.UUID) (*bulk.ImportHistory, error) {
	history, err := s.historyRepo.FindByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "Upload not found")
		}
		return nil, err
	}
	if err := s.requireStoreOwner(ctx, sellerID, history.StoreID); err != nil {
		return nil, err
	}
	if err := history.SetErrorDetailsFromJSON(history.ErrorsJSON); err != nil {
		s.logger.Warn("Unreadable error details on upload record",
			zap.String("upload_id", history.ID.String()), zap.Error(err))
	}
	return history, nil
}

func (s *ImportHistoryService) requireStoreOwner(ctx context.Context, sellerID, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return err
	}
	if !st.IsOwnedBy(sellerID) {
		return shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can view its uploads")
	}
	return nil
}
