package store

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypeStore is the aggregate type for stores
	AggregateTypeStore = "Store"

	// Store event types
	EventTypeStoreCreated        = "store.created"
	EventTypeStoreUpdated        = "store.updated"
	EventTypeStorePremiumChanged = "store.premium_changed"
	EventTypeStoreStatusChanged  = "store.status_changed"
)

// StoreCreatedEvent is published when a new store is created
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(store *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, store.ID),
		OwnerID:         store.OwnerID,
		Name:            store.Name,
		Slug:            store.Slug,
	}
}

// StoreUpdatedEvent is published when a store's profile is updated
type StoreUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewStoreUpdatedEvent creates a new StoreUpdatedEvent
func NewStoreUpdatedEvent(store *Store) *StoreUpdatedEvent {
	return &StoreUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreUpdated, AggregateTypeStore, store.ID),
		Name:            store.Name,
	}
}

// StorePremiumChangedEvent is published when premium status changes.
// Listing featuring is granted or cleared from this event.
type StorePremiumChangedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Premium bool      `json:"premium"`
}

// NewStorePremiumChangedEvent creates a new StorePremiumChangedEvent
func NewStorePremiumChangedEvent(store *Store, premium bool) *StorePremiumChangedEvent {
	return &StorePremiumChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStorePremiumChanged, AggregateTypeStore, store.ID),
		OwnerID:         store.OwnerID,
		Premium:         premium,
	}
}

// StoreStatusChangedEvent is published when a store opens or closes
type StoreStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus StoreStatus `json:"old_status"`
	NewStatus StoreStatus `json:"new_status"`
}

// NewStoreStatusChangedEvent creates a new StoreStatusChangedEvent
func NewStoreStatusChangedEvent(store *Store, oldStatus, newStatus StoreStatus) *StoreStatusChangedEvent {
	return &StoreStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreStatusChanged, AggregateTypeStore, store.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
