package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormImportHistoryRepository implements ImportHistoryRepository using GORM
type GormImportHistoryRepository struct {
	db *gorm.DB
}

// NewGormImportHistoryRepository creates a new GormImportHistoryRepository
func NewGormImportHistoryRepository(db *gorm.DB) *GormImportHistoryRepository {
	return &GormImportHistoryRepository{db: db}
}

// FindByID finds an upload record by ID
func (r *GormImportHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	var history bulk.ImportHistory
	if err := r.db.WithContext(ctx).First(&history, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := hydrateImportErrors(&history); err != nil {
		return nil, err
	}
	return &history, nil
}

// FindByStore returns a store's uploads with pagination and filtering
func (r *GormImportHistoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter bulk.ImportHistoryFilter, page, pageSize int) (*bulk.ImportHistoryListResult, error) {
	query := r.db.WithContext(ctx).
		Model(&bulk.ImportHistory{}).
		Where("store_id = ?", storeID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ImportedBy != nil {
		query = query.Where("imported_by = ?", *filter.ImportedBy)
	}
	if filter.StartedFrom != nil {
		query = query.Where("started_at >= ?", *filter.StartedFrom)
	}
	if filter.StartedTo != nil {
		query = query.Where("started_at <= ?", *filter.StartedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var items []*bulk.ImportHistory
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := hydrateImportErrors(item); err != nil {
			return nil, err
		}
	}

	return &bulk.ImportHistoryListResult{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// FindStuck finds uploads still processing past the cutoff
func (r *GormImportHistoryRepository) FindStuck(ctx context.Context, cutoff time.Time) ([]*bulk.ImportHistory, error) {
	var items []*bulk.ImportHistory
	err := r.db.WithContext(ctx).
		Where("status = ? AND started_at IS NOT NULL AND started_at < ?",
			bulk.ImportStatusProcessing, cutoff).
		Order("started_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := hydrateImportErrors(item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Save saves an upload record (create or update)
func (r *GormImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	errorsJSON, err := history.ErrorDetailsJSON()
	if err != nil {
		return err
	}
	history.ErrorsJSON = errorsJSON
	return r.db.WithContext(ctx).Save(history).Error
}

// Delete deletes an upload record by ID
func (r *GormImportHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&bulk.ImportHistory{}, "id = ?", id).Error
}

func hydrateImportErrors(history *bulk.ImportHistory) error {
	if history.ErrorsJSON == "" {
		return nil
	}
	return history.SetErrorDetailsFromJSON(history.ErrorsJSON)
}
