package store

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypeStoreReview is the aggregate type for store reviews
	AggregateTypeStoreReview = "StoreReview"

	// EventTypeStoreReviewCreated is published when a store gains a review
	EventTypeStoreReviewCreated = "store_review.created"
)

// StoreReviewCreatedEvent notifies the store owner of a new review
type StoreReviewCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID    uuid.UUID `json:"store_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
}

// NewStoreReviewCreatedEvent creates a new StoreReviewCreatedEvent
func NewStoreReviewCreatedEvent(review *StoreReview) *StoreReviewCreatedEvent {
	return &StoreReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreReviewCreated, AggregateTypeStoreReview, review.ID),
		StoreID:         review.StoreID,
		ReviewerID:      review.ReviewerID,
		Rating:          review.Rating,
	}
}
