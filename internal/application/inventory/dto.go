package inventory

import (
	"time"

	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// SetAlertRuleRequest configures a stock watch on a listing
type SetAlertRuleRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Type      string    `json:"type" binding:"required,oneof=low_stock out_of_stock"`
	Threshold int       `json:"threshold" binding:"omitempty,min=1"`
}

// AdjustStockRequest sets a listing's stock to an absolute level
type AdjustStockRequest struct {
	NewStock *int   `json:"new_stock" binding:"required,min=0"`
	Notes    string `json:"notes" binding:"max=500"`
}

// MovementListQuery represents pagination for the stock audit trail
type MovementListQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// AlertRuleResponse represents an alert rule in API responses
type AlertRuleResponse struct {
	ID              uuid.UUID  `json:"id"`
	StoreID         uuid.UUID  `json:"store_id"`
	ListingID       uuid.UUID  `json:"listing_id"`
	Type            string     `json:"type"`
	Threshold       int        `json:"threshold"`
	Active          bool       `json:"active"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
}

// AlertResponse represents a raised alert in API responses
type AlertResponse struct {
	ID             uuid.UUID  `json:"id"`
	StoreID        uuid.UUID  `json:"store_id"`
	ListingID      uuid.UUID  `json:"listing_id"`
	Type           string     `json:"type"`
	StockLevel     int        `json:"stock_level"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// StockMovementResponse represents one audit trail row
type StockMovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ListingID     uuid.UUID  `json:"listing_id"`
	Type          string     `json:"type"`
	Quantity      int        `json:"quantity"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	Notes         string     `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MovementListResponse is a page of the stock audit trail
type MovementListResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"page_size"`
}

// ToAlertRuleResponse converts a rule to its API representation
func ToAlertRuleResponse(r *inventory.AlertRule) AlertRuleResponse {
	return AlertRuleResponse{
		ID:              r.ID,
		StoreID:         r.StoreID,
		ListingID:       r.ListingID,
		Type:            string(r.Type),
		Threshold:       r.Threshold,
		Active:          r.Active,
		LastTriggeredAt: r.LastTriggeredAt,
	}
}

// ToAlertResponse converts an alert to its API representation
func ToAlertResponse(a *inventory.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		StoreID:        a.StoreID,
		ListingID:      a.ListingID,
		Type:           string(a.Type),
		StockLevel:     a.StockLevel,
		Acknowledged:   a.Acknowledged,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ToStockMovementResponse converts a movement row
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ListingID:     m.ListingID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
