package catalog

import (
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateListingRequest represents a request to create a new listing
type CreateListingRequest struct {
	StoreID     uuid.UUID       `json:"store_id" binding:"required"`
	Title       string          `json:"title" binding:"required,min=3,max=200"`
	Description string          `json:"description" binding:"required,min=10,max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Location    string          `json:"location" binding:"required"`
	Condition   string          `json:"condition" binding:"required"`
	Delivery    string          `json:"delivery" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	Brand       string          `json:"brand" binding:"max=100"`
	Model       string          `json:"model" binding:"max=100"`
	Dimensions  string          `json:"dimensions" binding:"max=100"`
	Weight      string          `json:"weight" binding:"max=50"`
	Color       string          `json:"color" binding:"max=50"`
	Material    string          `json:"material" binding:"max=100"`
	MetaDesc    string          `json:"meta_description" binding:"max=160"`
}

// UpdateListingRequest represents a request to update a listing
type UpdateListingRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description" binding:"omitempty,min=10,max=5000"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Delivery    *string    `json:"delivery"`
	Brand       *string    `json:"brand" binding:"omitempty,max=100"`
	Model       *string    `json:"model" binding:"omitempty,max=100"`
	Dimensions  *string    `json:"dimensions" binding:"omitempty,max=100"`
	Weight      *string    `json:"weight" binding:"omitempty,max=50"`
	Color       *string    `json:"color" binding:"omitempty,max=50"`
	Material    *string    `json:"material" binding:"omitempty,max=100"`
	MetaDesc    *string    `json:"meta_description" binding:"omitempty,max=160"`
}

// ChangePriceRequest represents a request to change a listing's price
type ChangePriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ApplyDiscountRequest represents a request to put a listing on discount
type ApplyDiscountRequest struct {
	DiscountPrice decimal.Decimal `json:"discount_price" binding:"required"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID             uuid.UUID        `json:"id"`
	StoreID        uuid.UUID        `json:"store_id"`
	SellerID       uuid.UUID        `json:"seller_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Slug           string           `json:"slug"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  decimal.Decimal  `json:"original_price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	PriceTrend     string           `json:"price_trend"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Location       string           `json:"location"`
	Condition      string           `json:"condition"`
	Delivery       string           `json:"delivery"`
	Stock          int              `json:"stock"`
	Status         string           `json:"status"`
	Featured       bool             `json:"featured"`
	Views          int              `json:"views"`
	Brand          string           `json:"brand,omitempty"`
	Model          string           `json:"model,omitempty"`
	Dimensions     string           `json:"dimensions,omitempty"`
	Weight         string           `json:"weight,omitempty"`
	Color          string           `json:"color,omitempty"`
	Material       string           `json:"material,omitempty"`
	MetaDesc       string           `json:"meta_description,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ListingListResponse represents a listing in list/search results
type ListingListResponse struct {
	ID             uuid.UUID        `json:"id"`
	StoreID        uuid.UUID        `json:"store_id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Location       string           `json:"location"`
	Condition      string           `json:"condition"`
	Stock          int              `json:"stock"`
	Status         string           `json:"status"`
	Featured       bool             `json:"featured"`
	Views          int              `json:"views"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ListingListQuery represents listing search and filter parameters
type ListingListQuery struct {
	Keyword    string           `form:"q"`
	StoreID    *uuid.UUID       `form:"store_id"`
	CategoryID *uuid.UUID       `form:"category_id"`
	Location   string           `form:"location"`
	Condition  string           `form:"condition"`
	Status     string           `form:"status"`
	Featured   *bool            `form:"featured"`
	MinPrice   *decimal.Decimal `form:"min_price"`
	MaxPrice   *decimal.Decimal `form:"max_price"`
	Page       int              `form:"page"`
	PageSize   int              `form:"page_size"`
	SortBy     string           `form:"sort_by"`
	SortOrder  string           `form:"sort_order"`
}

// PriceHistoryResponse represents one price point in a listing's history
type PriceHistoryResponse struct {
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// FavoriteListingResponse represents a saved listing in a user's favorites
type FavoriteListingResponse struct {
	ListingID uuid.UUID `json:"listing_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon" binding:"max=100"`
	SortOrder   *int   `json:"sort_order"`
	Featured    *bool  `json:"featured"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Icon        *string `json:"icon" binding:"omitempty,max=100"`
	SortOrder   *int    `json:"sort_order"`
	Featured    *bool   `json:"featured"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	SortOrder   int       `json:"sort_order"`
	Featured    bool      `json:"featured"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateFAQRequest represents a request to create a FAQ entry
type CreateFAQRequest struct {
	Question  string `json:"question" binding:"required,min=5,max=500"`
	Answer    string `json:"answer" binding:"required,min=1,max=2000"`
	SortOrder int    `json:"sort_order"`
}

// UpdateFAQRequest represents a request to update a FAQ entry
type UpdateFAQRequest struct {
	Question *string `json:"question" binding:"omitempty,min=5,max=500"`
	Answer   *string `json:"answer" binding:"omitempty,min=1,max=2000"`
}

// FAQResponse represents a FAQ entry in API responses
type FAQResponse struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
}

// ToListingResponse converts a listing to its API representation
func ToListingResponse(l *catalog.Listing) ListingResponse {
	return ListingResponse{
		ID:             l.ID,
		StoreID:        l.StoreID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Description:    l.Description,
		Slug:           l.Slug,
		Price:          l.Price,
		OriginalPrice:  l.OriginalPrice,
		DiscountPrice:  l.DiscountPrice,
		EffectivePrice: l.EffectivePrice(),
		PriceTrend:     l.PriceTrend(),
		CategoryID:     l.CategoryID,
		Location:       string(l.Location),
		Condition:      string(l.Condition),
		Delivery:       string(l.Delivery),
		Stock:          l.Stock,
		Status:         string(l.Status),
		Featured:       l.Featured,
		Views:          l.Views,
		Brand:          l.Brand,
		Model:          l.Model,
		Dimensions:     l.Dimensions,
		Weight:         l.Weight,
		Color:          l.Color,
		Material:       l.Material,
		MetaDesc:       l.MetaDesc,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ToListingListResponses converts listings to their list representation
func ToListingListResponses(listings []*catalog.Listing) []ListingListResponse {
	responses := make([]ListingListResponse, len(listings))
	for i, l := range listings {
		responses[i] = ListingListResponse{
			ID:             l.ID,
			StoreID:        l.StoreID,
			Title:          l.Title,
			Slug:           l.Slug,
			Price:          l.Price,
			DiscountPrice:  l.DiscountPrice,
			EffectivePrice: l.EffectivePrice(),
			Location:       string(l.Location),
			Condition:      string(l.Condition),
			Stock:          l.Stock,
			Status:         string(l.Status),
			Featured:       l.Featured,
			Views:          l.Views,
			CreatedAt:      l.CreatedAt,
		}
	}
	return responses
}

// ToCategoryResponse converts a category to its API representation
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		SortOrder:   c.SortOrder,
		Featured:    c.Featured,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

// ToFAQResponse converts a FAQ entry to its API representation
func ToFAQResponse(f *catalog.FAQ) FAQResponse {
	return FAQResponse{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		SortOrder: f.SortOrder,
		Active:    f.Active,
	}
}
