package store

import (
	"time"

	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest represents a request to open a storefront
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"max=255"`
	Policies    string `json:"policies" binding:"max=5000"`
}

// UpdateStoreRequest represents a request to update a storefront
type UpdateStoreRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	Policies    *string `json:"policies" binding:"omitempty,max=5000"`
}

// StoreResponse represents a storefront in API responses
type StoreResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Policies    string    `json:"policies"`
	Premium     bool      `json:"premium"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoreDetailResponse is a storefront with its rating aggregate
type StoreDetailResponse struct {
	StoreResponse
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// StoreListQuery represents store search parameters
type StoreListQuery struct {
	Keyword  string `form:"q"`
	Premium  *bool  `form:"premium"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateBundleRequest represents a request to create a product bundle
type CreateBundleRequest struct {
	StoreID     uuid.UUID           `json:"store_id" binding:"required"`
	Name        string              `json:"name" binding:"required,min=3,max=200"`
	Description string              `json:"description" binding:"max=2000"`
	BundlePrice decimal.Decimal     `json:"bundle_price" binding:"required"`
	Stock       *int                `json:"stock"`
	StartAt     *time.Time          `json:"start_at"`
	EndAt       *time.Time          `json:"end_at"`
	Items       []BundleItemRequest `json:"items" binding:"required,min=1"`
}

// BundleItemRequest represents one listing included in a bundle
type BundleItemRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Required  bool      `json:"required"`
}

// UpdateBundleRequest represents a request to update a bundle
type UpdateBundleRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=3,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	BundlePrice *decimal.Decimal `json:"bundle_price"`
	Stock       *int             `json:"stock"`
	StartAt     *time.Time       `json:"start_at"`
	EndAt       *time.Time       `json:"end_at"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
}

// BundleResponse represents a bundle in API responses
type BundleResponse struct {
	ID          uuid.UUID            `json:"id"`
	StoreID     uuid.UUID            `json:"store_id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description string               `json:"description"`
	BasePrice   decimal.Decimal      `json:"base_price"`
	BundlePrice decimal.Decimal      `json:"bundle_price"`
	Savings     decimal.Decimal      `json:"savings"`
	DiscountPct int                  `json:"discount_pct"`
	Stock       int                  `json:"stock"`
	Featured    bool                 `json:"featured"`
	Active      bool                 `json:"active"`
	Available   bool                 `json:"available"`
	StartAt     *time.Time           `json:"start_at,omitempty"`
	EndAt       *time.Time           `json:"end_at,omitempty"`
	Items       []BundleItemResponse `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
}

// BundleItemResponse represents a bundle member listing
type BundleItemResponse struct {
	ListingID uuid.UUID `json:"listing_id"`
	Quantity  int       `json:"quantity"`
	Required  bool      `json:"required"`
	SortOrder int       `json:"sort_order"`
}

// CreateStoreReviewRequest represents a request to review a store
type CreateStoreReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=5,max=1000"`
}

// UpdateStoreReviewRequest represents a request to edit a review
type UpdateStoreReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=5,max=1000"`
}

// StoreReviewResponse represents a store review in API responses
type StoreReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoreReviewListResponse pairs a page of reviews with the aggregate
type StoreReviewListResponse struct {
	Reviews       []StoreReviewResponse `json:"reviews"`
	Total         int64                 `json:"total"`
	AverageRating float64               `json:"average_rating"`
}

// ToStoreResponse converts a store to its API representation
func ToStoreResponse(st *store.Store) StoreResponse {
	return StoreResponse{
		ID:          st.ID,
		OwnerID:     st.OwnerID,
		Name:        st.Name,
		Slug:        st.Slug,
		Description: st.Description,
		Location:    st.Location,
		Policies:    st.Policies,
		Premium:     st.Premium,
		Status:      string(st.Status),
		CreatedAt:   st.CreatedAt,
	}
}

// ToBundleResponse converts a bundle to its API representation. The
// caller supplies availability since it depends on member listing stock.
func ToBundleResponse(b *store.ProductBundle, available bool) BundleResponse {
	items := make([]BundleItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BundleItemResponse{
			ListingID: item.ListingID,
			Quantity:  item.Quantity,
			Required:  item.Required,
			SortOrder: item.SortOrder,
		}
	}
	return BundleResponse{
		ID:          b.ID,
		StoreID:     b.StoreID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		BasePrice:   b.BasePrice,
		BundlePrice: b.BundlePrice,
		Savings:     b.Savings(),
		DiscountPct: b.DiscountPct,
		Stock:       b.Stock,
		Featured:    b.Featured,
		Active:      b.Active,
		Available:   available,
		StartAt:     b.StartAt,
		EndAt:       b.EndAt,
		Items:       items,
		CreatedAt:   b.CreatedAt,
	}
}

// ToStoreReviewResponse converts a review to its API representation
func ToStoreReviewResponse(r *store.StoreReview) StoreReviewResponse {
	return StoreReviewResponse{
		ID:           r.ID,
		StoreID:      r.StoreID,
		ReviewerID:   r.ReviewerID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		HelpfulCount: r.HelpfulCount,
		CreatedAt:    r.CreatedAt,
	}
}
