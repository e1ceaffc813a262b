package review

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeReview is the aggregate type for review events
const AggregateTypeReview = "Review"

// Review event types
const (
	EventTypeReviewCreated = "review.created"
)

// ReviewCreatedEvent is published when a review is submitted. Seller
// notifications and rating aggregates hang off this event.
type ReviewCreatedEvent struct {
	shared.BaseDomainEvent
	ReviewType Type       `json:"review_type"`
	ReviewerID uuid.UUID  `json:"reviewer_id"`
	ListingID  *uuid.UUID `json:"listing_id,omitempty"`
	SellerID   *uuid.UUID `json:"seller_id,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	Rating     int        `json:"rating"`
}

// NewReviewCreatedEvent creates a new review created event
func NewReviewCreatedEvent(review *Review) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewCreated, AggregateTypeReview, review.ID),
		ReviewType:      review.Type,
		ReviewerID:      review.ReviewerID,
		ListingID:       review.ListingID,
		SellerID:        review.SellerID,
		OrderID:         review.OrderID,
		Rating:          review.Rating,
	}
}
