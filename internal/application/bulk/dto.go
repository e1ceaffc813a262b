package bulk

import (
	"time"

	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/google/uuid"
)

// ImportRequest represents a CSV listing upload
type ImportRequest struct {
	FileName     string `json:"file_name" binding:"required,max=255"`
	ConflictMode string `json:"conflict_mode" binding:"omitempty,oneof=skip update fail"`
}

// ImportHistoryQuery represents filters for the upload history list
type ImportHistoryQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing completed failed cancelled"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ImportResultResponse summarises one finished upload
type ImportResultResponse struct {
	ID          uuid.UUID                `json:"id"`
	Status      string                   `json:"status"`
	TotalRows   int                      `json:"total_rows"`
	SuccessRows int                      `json:"success_rows"`
	UpdatedRows int                      `json:"updated_rows"`
	SkippedRows int                      `json:"skipped_rows"`
	ErrorRows   int                      `json:"error_rows"`
	SuccessRate float64                  `json:"success_rate"`
	Errors      []bulk.ImportErrorDetail `json:"errors,omitempty"`
}

// ImportHistoryResponse represents one upload in the history list
type ImportHistoryResponse struct {
	ID          uuid.UUID                `json:"id"`
	StoreID     uuid.UUID                `json:"store_id"`
	FileName    string                   `json:"file_name"`
	FileSize    int64                    `json:"file_size"`
	Status      string                   `json:"status"`
	TotalRows   int                      `json:"total_rows"`
	SuccessRows int                      `json:"success_rows"`
	UpdatedRows int                      `json:"updated_rows"`
	SkippedRows int                      `json:"skipped_rows"`
	ErrorRows   int                      `json:"error_rows"`
	Errors      []bulk.ImportErrorDetail `json:"errors,omitempty"`
	ImportedBy  uuid.UUID                `json:"imported_by"`
	StartedAt   *time.Time               `json:"started_at,omitempty"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ImportHistoryListResponse represents a paginated upload history
type ImportHistoryListResponse struct {
	Uploads  []*ImportHistoryResponse `json:"uploads"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

// ToImportResultResponse converts a finished upload to its result DTO
func ToImportResultResponse(h *bulk.ImportHistory) *ImportResultResponse {
	return &ImportResultResponse{
		ID:          h.ID,
		Status:      string(h.Status),
		TotalRows:   h.TotalRows,
		SuccessRows: h.SuccessRows,
		UpdatedRows: h.UpdatedRows,
		SkippedRows: h.SkippedRows,
		ErrorRows:   h.ErrorRows,
		SuccessRate: h.SuccessRate(),
		Errors:      h.ErrorDetails,
	}
}

// ToImportHistoryResponse converts an upload record to a response DTO
func ToImportHistoryResponse(h *bulk.ImportHistory) *ImportHistoryResponse {
	return &ImportHistoryResponse{
		ID:          h.ID,
		StoreID:     h.StoreID,
		FileName:    h.FileName,
		FileSize:    h.FileSize,
		Status:      string(h.Status),
		TotalRows:   h.TotalRows,
		SuccessRows: h.SuccessRows,
		UpdatedRows: h.UpdatedRows,
		SkippedRows: h.SkippedRows,
		ErrorRows:   h.ErrorRows,
		Errors:      h.ErrorDetails,
		ImportedBy:  h.ImportedBy,
		StartedAt:   h.StartedAt,
		CompletedAt: h.CompletedAt,
		CreatedAt:   h.CreatedAt,
	}
}
