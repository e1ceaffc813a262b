package catalog

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AggregateTypeListing is the aggregate type for listings
	AggregateTypeListing = "Listing"

	// Listing event types
	EventTypeListingCreated       = "listing.created"
	EventTypeListingUpdated       = "listing.updated"
	EventTypeListingPriceChanged  = "listing.price_changed"
	EventTypeListingFeatured      = "listing.featured"
	EventTypeListingSoldOut       = "listing.sold_out"
	EventTypeListingStockAdjusted = "listing.stock_adjusted"
	EventTypeListingStatusChanged = "listing.status_changed"
	EventTypeListingDeleted       = "listing.deleted"
)

// ListingCreatedEvent is published when a new listing is created
type ListingCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID  uuid.UUID       `json:"store_id"`
	SellerID uuid.UUID       `json:"seller_id"`
	Title    string          `json:"title"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
}

// NewListingCreatedEvent creates a new ListingCreatedEvent
func NewListingCreatedEvent(listing *Listing) *ListingCreatedEvent {
	return &ListingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingCreated, AggregateTypeListing, listing.ID),
		StoreID:         listing.StoreID,
		SellerID:        listing.SellerID,
		Title:           listing.Title,
		Slug:            listing.Slug,
		Price:           listing.Price,
	}
}

// ListingUpdatedEvent is published when a listing's information is updated
type ListingUpdatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NewListingUpdatedEvent creates a new ListingUpdatedEvent
func NewListingUpdatedEvent(listing *Listing) *ListingUpdatedEvent {
	return &ListingUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingUpdated, AggregateTypeListing, listing.ID),
		Title:           listing.Title,
		Slug:            listing.Slug,
	}
}

// ListingPriceChangedEvent is published when a listing's price changes.
// The price history is appended from this event.
type ListingPriceChangedEvent struct {
	shared.BaseDomainEvent
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// NewListingPriceChangedEvent creates a new ListingPriceChangedEvent
func NewListingPriceChangedEvent(listing *Listing, oldPrice, newPrice decimal.Decimal) *ListingPriceChangedEvent {
	return &ListingPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingPriceChanged, AggregateTypeListing, listing.ID),
		OldPrice:        oldPrice,
		NewPrice:        newPrice,
	}
}

// ListingFeaturedEvent is published when a listing is promoted to featured
type ListingFeaturedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Title   string    `json:"title"`
}

// NewListingFeaturedEvent creates a new ListingFeaturedEvent
func NewListingFeaturedEvent(listing *Listing) *ListingFeaturedEvent {
	return &ListingFeaturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingFeatured, AggregateTypeListing, listing.ID),
		StoreID:         listing.StoreID,
		Title:           listing.Title,
	}
}

// ListingSoldOutEvent is published when a listing's stock reaches zero
type ListingSoldOutEvent struct {
	shared.BaseDomainEvent
	StoreID  uuid.UUID `json:"store_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
}

// NewListingSoldOutEvent creates a new ListingSoldOutEvent
func NewListingSoldOutEvent(listing *Listing) *ListingSoldOutEvent {
	return &ListingSoldOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingSoldOut, AggregateTypeListing, listing.ID),
		StoreID:         listing.StoreID,
		SellerID:        listing.SellerID,
		Title:           listing.Title,
	}
}

// ListingStockAdjustedEvent is published when a seller corrects stock.
// Inventory alerting listens for low stock from this event.
type ListingStockAdjustedEvent struct {
	shared.BaseDomainEvent
	StoreID  uuid.UUID `json:"store_id"`
	OldStock int       `json:"old_stock"`
	NewStock int       `json:"new_stock"`
}

// NewListingStockAdjustedEvent creates a new ListingStockAdjustedEvent
func NewListingStockAdjustedEvent(listing *Listing, oldStock, newStock int) *ListingStockAdjustedEvent {
	return &ListingStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingStockAdjusted, AggregateTypeListing, listing.ID),
		StoreID:         listing.StoreID,
		OldStock:        oldStock,
		NewStock:        newStock,
	}
}

// ListingStatusChangedEvent is published when a listing's status changes
type ListingStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ListingStatus `json:"old_status"`
	NewStatus ListingStatus `json:"new_status"`
}

// NewListingStatusChangedEvent creates a new ListingStatusChangedEvent
func NewListingStatusChangedEvent(listing *Listing, oldStatus, newStatus ListingStatus) *ListingStatusChangedEvent {
	return &ListingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingStatusChanged, AggregateTypeListing, listing.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ListingDeletedEvent is published when a listing is deleted
type ListingDeletedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Title   string    `json:"title"`
}

// NewListingDeletedEvent creates a new ListingDeletedEvent
func NewListingDeletedEvent(listing *Listing) *ListingDeletedEvent {
	return &ListingDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingDeleted, AggregateTypeListing, listing.ID),
		StoreID:         listing.StoreID,
		Title:           listing.Title,
	}
}
