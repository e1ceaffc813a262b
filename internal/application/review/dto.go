package review

import (
	"time"

	"github.com/baysoko/backend/internal/domain/review"
	"github.com/google/uuid"
)

// CreateListingReviewRequest represents a buyer's review of a listing
type CreateListingReviewRequest struct {
	ListingID           uuid.UUID            `json:"listing_id" binding:"required"`
	Rating              int                  `json:"rating" binding:"required,min=1,max=5"`
	Comment             string               `json:"comment" binding:"max=1000"`
	CommunicationRating *int                 `json:"communication_rating" binding:"omitempty,min=1,max=5"`
	DeliveryRating      *int                 `json:"delivery_rating" binding:"omitempty,min=1,max=5"`
	AccuracyRating      *int                 `json:"accuracy_rating" binding:"omitempty,min=1,max=5"`
	Photos              []ReviewPhotoRequest `json:"photos" binding:"omitempty,max=5,dive"`
}

// CreateSellerReviewRequest represents a buyer's review of a seller
type CreateSellerReviewRequest struct {
	SellerID            uuid.UUID `json:"seller_id" binding:"required"`
	Rating              int       `json:"rating" binding:"required,min=1,max=5"`
	Comment             string    `json:"comment" binding:"max=1000"`
	CommunicationRating *int      `json:"communication_rating" binding:"omitempty,min=1,max=5"`
	DeliveryRating      *int      `json:"delivery_rating" binding:"omitempty,min=1,max=5"`
	AccuracyRating      *int      `json:"accuracy_rating" binding:"omitempty,min=1,max=5"`
}

// CreateOrderReviewRequest represents a buyer's review of a delivered order
type CreateOrderReviewRequest struct {
	OrderID             uuid.UUID `json:"order_id" binding:"required"`
	Rating              int       `json:"rating" binding:"required,min=1,max=5"`
	Comment             string    `json:"comment" binding:"max=1000"`
	CommunicationRating *int      `json:"communication_rating" binding:"omitempty,min=1,max=5"`
	DeliveryRating      *int      `json:"delivery_rating" binding:"omitempty,min=1,max=5"`
	AccuracyRating      *int      `json:"accuracy_rating" binding:"omitempty,min=1,max=5"`
}

// UpdateReviewRequest edits the reviewer's own review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// ReviewPhotoRequest attaches an uploaded image to a review
type ReviewPhotoRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
	Caption    string `json:"caption" binding:"max=200"`
}

// ReviewListQuery represents pagination for review listings
type ReviewListQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// ReviewPhotoResponse represents a review photo in API responses
type ReviewPhotoResponse struct {
	ID         uuid.UUID `json:"id"`
	StorageKey string    `json:"storage_key"`
	Caption    string    `json:"caption,omitempty"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID                  uuid.UUID             `json:"id"`
	Type                string                `json:"type"`
	ReviewerID          uuid.UUID             `json:"reviewer_id"`
	ListingID           *uuid.UUID            `json:"listing_id,omitempty"`
	SellerID            *uuid.UUID            `json:"seller_id,omitempty"`
	OrderID             *uuid.UUID            `json:"order_id,omitempty"`
	Rating              int                   `json:"rating"`
	Comment             string                `json:"comment,omitempty"`
	CommunicationRating *int                  `json:"communication_rating,omitempty"`
	DeliveryRating      *int                  `json:"delivery_rating,omitempty"`
	AccuracyRating      *int                  `json:"accuracy_rating,omitempty"`
	VerifiedPurchase    bool                  `json:"verified_purchase"`
	Photos              []ReviewPhotoResponse `json:"photos,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
}

// RatingSummaryResponse aggregates public ratings over a target
type RatingSummaryResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ReviewListResponse pairs a page of reviews with the target's aggregate
type ReviewListResponse struct {
	Reviews []ReviewResponse      `json:"reviews"`
	Total   int64                 `json:"total"`
	Summary RatingSummaryResponse `json:"summary"`
}

// ToReviewResponse converts a review to its API representation
func ToReviewResponse(r *review.Review) ReviewResponse {
	photos := make([]ReviewPhotoResponse, len(r.Photos))
	for i, p := range r.Photos {
		photos[i] = ReviewPhotoResponse{
			ID:         p.ID,
			StorageKey: p.StorageKey,
			Caption:    p.Caption,
		}
	}

	return ReviewResponse{
		ID:                  r.ID,
		Type:                string(r.Type),
		ReviewerID:          r.ReviewerID,
		ListingID:           r.ListingID,
		SellerID:            r.SellerID,
		OrderID:             r.OrderID,
		Rating:              r.Rating,
		Comment:             r.Comment,
		CommunicationRating: r.CommunicationRating,
		DeliveryRating:      r.DeliveryRating,
		AccuracyRating:      r.AccuracyRating,
		VerifiedPurchase:    r.VerifiedPurchase,
		Photos:              photos,
		CreatedAt:           r.CreatedAt,
	}
}

// ToReviewListResponses converts a slice of reviews
func ToReviewListResponses(reviews []*review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = ToReviewResponse(r)
	}
	return responses
}
