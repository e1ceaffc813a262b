package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportStatus represents the status of a bulk listing upload
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
	ImportStatusCancelled  ImportStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusPending, ImportStatusProcessing, ImportStatusCompleted,
		ImportStatusFailed, ImportStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed || s == ImportStatusCancelled
}

// ConflictMode defines what happens when a CSV row matches an
// existing listing title in the store
type ConflictMode string

const (
	ConflictModeSkip   ConflictMode = "skip"
	ConflictModeUpdate ConflictMode = "update"
	ConflictModeFail   ConflictMode = "fail"
)

// IsValid checks if the conflict mode is valid
func (c ConflictMode) IsValid() bool {
	switch c {
	case ConflictModeSkip, ConflictModeUpdate, ConflictModeFail:
		return true
	}
	return false
}

// ImportErrorDetail pinpoints a rejected CSV row
type ImportErrorDetail struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportHistory tracks one CSV listing upload for a store. Bulk
// upload is a paid plan feature; the application layer gates access.
type ImportHistory struct {
	shared.BaseAggregateRoot
	StoreID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	FileName     string              `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize     int64               `gorm:"not null" json:"file_size"`
	TotalRows    int                 `gorm:"not null;default:0" json:"total_rows"`
	SuccessRows  int                 `gorm:"not null;default:0" json:"success_rows"`
	ErrorRows    int                 `gorm:"not null;default:0" json:"error_rows"`
	SkippedRows  int                 `gorm:"not null;default:0" json:"skipped_rows"`
	UpdatedRows  int                 `gorm:"not null;default:0" json:"updated_rows"`
	ConflictMode ConflictMode        `gorm:"type:varchar(20);not null;default:'skip'" json:"conflict_mode"`
	Status       ImportStatus        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ErrorDetails []ImportErrorDetail `gorm:"-" json:"error_details,omitempty"`
	ErrorsJSON   string              `gorm:"column:error_details;type:jsonb" json:"-"`
	ImportedBy   uuid.UUID           `gorm:"type:uuid;not null" json:"imported_by"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

// TableName returns the table name for GORM
func (ImportHistory) TableName() string {
	return "listing_import_history"
}

// NewImportHistory creates a pending upload record for a store
func NewImportHistory(storeID uuid.UUID, fileName string, fileSize int64, conflictMode ConflictMode, importedBy uuid.UUID) (*ImportHistory, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}
	if !conflictMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONFLICT_MODE", fmt.Sprintf("Invalid conflict mode: %s", conflictMode))
	}
	if importedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Importer ID cannot be empty")
	}

	return &ImportHistory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		FileName:          fileName,
		FileSize:          fileSize,
		ConflictMode:      conflictMode,
		Status:            ImportStatusPending,
		ErrorDetails:      make([]ImportErrorDetail, 0),
		ImportedBy:        importedBy,
	}, nil
}

// StartProcessing marks the upload as started
func (h *ImportHistory) StartProcessing(totalRows int) error {
	if h.Status != ImportStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", h.Status))
	}
	if totalRows < 0 {
		return shared.NewDomainError("INVALID_TOTAL_ROWS", "Total rows cannot be negative")
	}

	h.Status = ImportStatusProcessing
	h.TotalRows = totalRows
	now := time.Now()
	h.StartedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Complete records the row counts. An upload where every row failed
// is marked failed rather than completed.
func (h *ImportHistory) Complete(successRows, errorRows, skippedRows, updatedRows int, errors []ImportErrorDetail) error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}

	status := ImportStatusCompleted
	if errorRows > 0 && successRows == 0 && updatedRows == 0 {
		status = ImportStatusFailed
	}

	h.Status = status
	h.SuccessRows = successRows
	h.ErrorRows = errorRows
	h.SkippedRows = skippedRows
	h.UpdatedRows = updatedRows
	h.ErrorDetails = errors
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Fail marks the upload as failed outright, e.g. an unreadable file
func (h *ImportHistory) Fail(errors []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusFailed
	h.ErrorDetails = errors
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// Cancel marks the upload as cancelled
func (h *ImportHistory) Cancel() error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusCancelled
	now := time.Now()
	h.CompletedAt = &now
	h.UpdatedAt = now
	h.IncrementVersion()

	return nil
}

// IsCompleted returns true if the upload finished, possibly with
// partial errors
func (h *ImportHistory) IsCompleted() bool {
	return h.Status == ImportStatusCompleted
}

// IsFailed returns true if the upload failed completely
func (h *ImportHistory) IsFailed() bool {
	return h.Status == ImportStatusFailed
}

// HasErrors returns true if any rows were rejected
func (h *ImportHistory) HasErrors() bool {
	return len(h.ErrorDetails) > 0
}

// ErrorDetailsJSON returns the error details as a JSON string
func (h *ImportHistory) ErrorDetailsJSON() (string, error) {
	if len(h.ErrorDetails) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// SetErrorDetailsFromJSON parses error details from a JSON string
func (h *ImportHistory) SetErrorDetailsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		h.ErrorDetails = make([]ImportErrorDetail, 0)
		return nil
	}
	var errors []ImportErrorDetail
	if err := json.Unmarshal([]byte(jsonStr), &errors); err != nil {
		return fmt.Errorf("failed to unmarshal error details: %w", err)
	}
	h.ErrorDetails = errors
	return nil
}

// SuccessRate returns the success rate as a percentage (0-100)
func (h *ImportHistory) SuccessRate() float64 {
	if h.TotalRows == 0 {
		return 0
	}
	return float64(h.SuccessRows+h.UpdatedRows) / float64(h.TotalRows) * 100
}

// Duration returns how long the upload ran
func (h *ImportHistory) Duration() time.Duration {
	if h.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if h.CompletedAt != nil {
		end = *h.CompletedAt
	}
	return end.Sub(*h.StartedAt)
}
