package catalog

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypeListingImage is the aggregate type for listing images
	AggregateTypeListingImage = "ListingImage"

	// Listing image event types
	EventTypeListingImageCreated   = "listing_image.created"
	EventTypeListingImageConfirmed = "listing_image.confirmed"
	EventTypeListingImageDeleted   = "listing_image.deleted"
)

// ListingImageCreatedEvent is published when an image upload is registered
type ListingImageCreatedEvent struct {
	shared.BaseDomainEvent
	ListingID  uuid.UUID `json:"listing_id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
}

// NewListingImageCreatedEvent creates a new ListingImageCreatedEvent
func NewListingImageCreatedEvent(image *ListingImage) *ListingImageCreatedEvent {
	return &ListingImageCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingImageCreated, AggregateTypeListingImage, image.ID),
		ListingID:       image.ListingID,
		FileName:        image.FileName,
		StorageKey:      image.StorageKey,
	}
}

// ListingImageConfirmedEvent is published when the upload is confirmed.
// The thumbnail pipeline listens for this event.
type ListingImageConfirmedEvent struct {
	shared.BaseDomainEvent
	ListingID  uuid.UUID `json:"listing_id"`
	StorageKey string    `json:"storage_key"`
}

// NewListingImageConfirmedEvent creates a new ListingImageConfirmedEvent
func NewListingImageConfirmedEvent(image *ListingImage) *ListingImageConfirmedEvent {
	return &ListingImageConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingImageConfirmed, AggregateTypeListingImage, image.ID),
		ListingID:       image.ListingID,
		StorageKey:      image.StorageKey,
	}
}

// ListingImageDeletedEvent is published when an image is soft deleted.
// Storage cleanup removes the underlying objects from this event.
type ListingImageDeletedEvent struct {
	shared.BaseDomainEvent
	ListingID    uuid.UUID `json:"listing_id"`
	StorageKey   string    `json:"storage_key"`
	ThumbnailKey string    `json:"thumbnail_key,omitempty"`
}

// NewListingImageDeletedEvent creates a new ListingImageDeletedEvent
func NewListingImageDeletedEvent(image *ListingImage) *ListingImageDeletedEvent {
	return &ListingImageDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingImageDeleted, AggregateTypeListingImage, image.ID),
		ListingID:       image.ListingID,
		StorageKey:      image.StorageKey,
		ThumbnailKey:    image.ThumbnailKey,
	}
}
