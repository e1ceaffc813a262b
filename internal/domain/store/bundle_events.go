package store

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AggregateTypeBundle is the aggregate type for product bundles
	AggregateTypeBundle = "ProductBundle"

	// EventTypeBundleCreated is published when a bundle is created
	EventTypeBundleCreated = "bundle.created"
)

// BundleCreatedEvent is published when a store creates a bundle
type BundleCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	BundlePrice decimal.Decimal `json:"bundle_price"`
}

// NewBundleCreatedEvent creates a new BundleCreatedEvent
func NewBundleCreatedEvent(bundle *ProductBundle) *BundleCreatedEvent {
	return &BundleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBundleCreated, AggregateTypeBundle, bundle.ID),
		StoreID:         bundle.StoreID,
		Name:            bundle.Name,
		BundlePrice:     bundle.BundlePrice,
	}
}
