package inventory

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeAlert is the aggregate type for inventory alert events
const AggregateTypeAlert = "InventoryAlert"

// Inventory event types
const (
	EventTypeAlertRaised = "inventory.alert_raised"
)

// AlertRaisedEvent is published when a stock rule fires. Seller
// notifications hang off this event.
type AlertRaisedEvent struct {
	shared.BaseDomainEvent
	StoreID    uuid.UUID `json:"store_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	AlertType  AlertType `json:"alert_type"`
	StockLevel int       `json:"stock_level"`
}

// NewAlertRaisedEvent creates a new alert raised event
func NewAlertRaisedEvent(alert *Alert) *AlertRaisedEvent {
	return &AlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertRaised, AggregateTypeAlert, alert.ID),
		StoreID:         alert.StoreID,
		ListingID:       alert.ListingID,
		AlertType:       alert.Type,
		StockLevel:      alert.StockLevel,
	}
}
