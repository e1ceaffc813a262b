package bulk

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportHistoryFilter defines the filters for querying upload history
type ImportHistoryFilter struct {
	Status      *ImportStatus
	ImportedBy  *uuid.UUID
	StartedFrom *time.Time
	StartedTo   *time.Time
}

// ImportHistoryListResult represents a paginated list of uploads
type ImportHistoryListResult struct {
	Items      []*ImportHistory
	TotalCount int64
	Page       int
	PageSize   int
}

// ImportHistoryRepository defines the interface for upload history persistence
type ImportHistoryRepository interface {
	// FindByID finds an upload record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportHistory, error)

	// FindByStore returns a store's uploads with pagination and filtering
	FindByStore(ctx context.Context, storeID uuid.UUID, filter ImportHistoryFilter, page, pageSize int) (*ImportHistoryListResult, error)

	// FindStuck finds uploads still processing past the cutoff, for
	// recovery after a restart
	FindStuck(ctx context.Context, cutoff time.Time) ([]*ImportHistory, error)

	// Save saves an upload record (create or update)
	Save(ctx context.Context, history *ImportHistory) error

	// Delete deletes an upload record by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
