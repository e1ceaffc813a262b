package review

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const maxCommentLength = 1000

// Type distinguishes what a review is about
type Type string

const (
	TypeListing Type = "listing"
	TypeSeller  Type = "seller"
	TypeOrder   Type = "order"
)

// IsValid checks if the review type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeListing, TypeSeller, TypeOrder:
		return true
	default:
		return false
	}
}

// Review is a buyer's rating of a listing, a seller, or a whole order.
// One review per (reviewer, target, type); the target column used
// depends on Type.
type Review struct {
	shared.BaseAggregateRoot
	Type       Type       `gorm:"type:varchar(20);not null;default:'listing';index"`
	ReviewerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ListingID  *uuid.UUID `gorm:"type:uuid;index"`
	SellerID   *uuid.UUID `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	Rating     int        `gorm:"not null"`
	Comment    string     `gorm:"type:text"`

	// Optional detail ratings, 1..5 when present
	CommunicationRating *int `gorm:""`
	DeliveryRating      *int `gorm:""`
	AccuracyRating      *int `gorm:""`

	VerifiedPurchase bool `gorm:"not null;default:false"`
	Public           bool `gorm:"not null;default:true"`

	Photos []Photo `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// Photo is an image attached to a review
type Photo struct {
	shared.BaseEntity
	ReviewID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey string    `gorm:"type:varchar(500);not null"`
	Caption    string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Photo) TableName() string {
	return "review_photos"
}

// NewListingReview creates a review of a listing. verifiedPurchase is
// true when the reviewer has a delivered order containing the listing.
func NewListingReview(reviewerID, listingID uuid.UUID, rating int, comment string, verifiedPurchase bool) (*Review, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}

	r, err := newReview(TypeListing, reviewerID, rating, comment)
	if err != nil {
		return nil, err
	}
	r.ListingID = &listingID
	r.VerifiedPurchase = verifiedPurchase

	r.AddDomainEvent(NewReviewCreatedEvent(r))

	return r, nil
}

// NewSellerReview creates a review of a seller
func NewSellerReview(reviewerID, sellerID uuid.UUID, rating int, comment string) (*Review, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER_ID", "Seller ID cannot be empty")
	}
	if sellerID == reviewerID {
		return nil, shared.NewDomainError("SELF_REVIEW", "Sellers cannot review themselves")
	}

	r, err := newReview(TypeSeller, reviewerID, rating, comment)
	if err != nil {
		return nil, err
	}
	r.SellerID = &sellerID

	r.AddDomainEvent(NewReviewCreatedEvent(r))

	return r, nil
}

// NewOrderReview creates a review of a completed order
func NewOrderReview(reviewerID, orderID uuid.UUID, rating int, comment string) (*Review, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}

	r, err := newReview(TypeOrder, reviewerID, rating, comment)
	if err != nil {
		return nil, err
	}
	r.OrderID = &orderID
	r.VerifiedPurchase = true

	r.AddDomainEvent(NewReviewCreatedEvent(r))

	return r, nil
}

func newReview(reviewType Type, reviewerID uuid.UUID, rating int, comment string) (*Review, error) {
	if reviewerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REVIEWER_ID", "Reviewer ID cannot be empty")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if len(comment) > maxCommentLength {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}

	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              reviewType,
		ReviewerID:        reviewerID,
		Rating:            rating,
		Comment:           comment,
		Public:            true,
		Photos:            []Photo{},
	}, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

// SetDetailRatings attaches the optional per-aspect ratings. Nil
// leaves an aspect unrated.
func (r *Review) SetDetailRatings(communication, delivery, accuracy *int) error {
	for _, rating := range []*int{communication, delivery, accuracy} {
		if rating != nil {
			if err := validateRating(*rating); err != nil {
				return err
			}
		}
	}

	r.CommunicationRating = communication
	r.DeliveryRating = delivery
	r.AccuracyRating = accuracy
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Update changes the rating and comment
func (r *Review) Update(rating int, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	if len(comment) > maxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}

	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// AddPhoto attaches an image to the review
func (r *Review) AddPhoto(storageKey, caption string) error {
	if storageKey == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(caption) > 200 {
		return shared.NewDomainError("INVALID_CAPTION", "Caption cannot exceed 200 characters")
	}
	if len(r.Photos) >= 5 {
		return shared.NewDomainError("TOO_MANY_PHOTOS", "A review can carry at most 5 photos")
	}

	r.Photos = append(r.Photos, Photo{
		BaseEntity: shared.NewBaseEntity(),
		ReviewID:   r.ID,
		StorageKey: storageKey,
		Caption:    caption,
	})
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Hide takes the review off public surfaces without deleting it
func (r *Review) Hide() {
	if !r.Public {
		return
	}
	r.Public = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Publish restores a hidden review
func (r *Review) Publish() {
	if r.Public {
		return
	}
	r.Public = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
