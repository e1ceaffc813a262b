package inventory

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertType describes the stock condition being watched
type AlertType string

const (
	AlertTypeLowStock   AlertType = "low_stock"
	AlertTypeOutOfStock AlertType = "out_of_stock"
)

// IsValid checks if the alert type is valid
func (t AlertType) IsValid() bool {
	return t == AlertTypeLowStock || t == AlertTypeOutOfStock
}

// AlertRule watches one listing's stock level. Low stock rules fire
// when stock drops to or below the threshold; out of stock at zero.
type AlertRule struct {
	shared.BaseAggregateRoot
	StoreID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ListingID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_alert_rule_listing_type"`
	Type            AlertType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_alert_rule_listing_type"`
	Threshold       int        `gorm:"not null;default:5"`
	Active          bool       `gorm:"not null;default:true;index"`
	LastTriggeredAt *time.Time ``
}

// TableName returns the table name for GORM
func (AlertRule) TableName() string {
	return "inventory_alert_rules"
}

// NewAlertRule creates an active watch on a listing's stock
func NewAlertRule(storeID, listingID uuid.UUID, alertType AlertType, threshold int) (*AlertRule, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALERT_TYPE", "Unknown alert type")
	}
	if alertType == AlertTypeLowStock && threshold < 1 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold must be at least 1")
	}

	return &AlertRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ListingID:         listingID,
		Type:              alertType,
		Threshold:         threshold,
		Active:            true,
	}, nil
}

// SetThreshold adjusts when the rule fires
func (r *AlertRule) SetThreshold(threshold int) error {
	if r.Type == AlertTypeLowStock && threshold < 1 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold must be at least 1")
	}

	r.Threshold = threshold
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// ShouldTrigger checks the rule against a current stock level
func (r *AlertRule) ShouldTrigger(stock int) bool {
	if !r.Active {
		return false
	}
	switch r.Type {
	case AlertTypeOutOfStock:
		return stock == 0
	case AlertTypeLowStock:
		return stock > 0 && stock <= r.Threshold
	default:
		return false
	}
}

// MarkTriggered records that the rule fired
func (r *AlertRule) MarkTriggered() {
	now := time.Now()
	r.LastTriggeredAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
}

// Activate turns the rule back on
func (r *AlertRule) Activate() {
	if r.Active {
		return
	}
	r.Active = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Deactivate silences the rule without deleting it
func (r *AlertRule) Deactivate() {
	if !r.Active {
		return
	}
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Alert is one firing of a rule, shown on the seller dashboard until
// acknowledged.
type Alert struct {
	shared.BaseAggregateRoot
	RuleID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	StoreID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ListingID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type           AlertType  `gorm:"type:varchar(20);not null"`
	StockLevel     int        `gorm:"not null"`
	Acknowledged   bool       `gorm:"not null;default:false;index"`
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	AcknowledgedAt *time.Time ``
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "inventory_alerts"
}

// NewAlert records a rule firing at the given stock level
func NewAlert(rule *AlertRule, stockLevel int) (*Alert, error) {
	if rule == nil {
		return nil, shared.NewDomainError("INVALID_RULE", "Rule cannot be nil")
	}
	if stockLevel < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock level cannot be negative")
	}

	alert := &Alert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RuleID:            rule.ID,
		StoreID:           rule.StoreID,
		ListingID:         rule.ListingID,
		Type:              rule.Type,
		StockLevel:        stockLevel,
	}

	alert.AddDomainEvent(NewAlertRaisedEvent(alert))

	return alert, nil
}

// Acknowledge dismisses the alert from the dashboard
func (a *Alert) Acknowledge(userID uuid.UUID) error {
	if a.Acknowledged {
		return shared.NewDomainError("ALREADY_ACKNOWLEDGED", "Alert is already acknowledged")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	now := time.Now()
	a.Acknowledged = true
	a.AcknowledgedBy = &userID
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}
