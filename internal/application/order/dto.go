package order

import (
	"time"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddToCartRequest adds a listing to the caller's cart
type AddToCartRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest sets a cart line's quantity; zero removes it
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartItemResponse is one cart line priced at the listing's current price
type CartItemResponse struct {
	ListingID uuid.UUID       `json:"listing_id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
}

// CartResponse represents the caller's cart
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

// CheckoutRequest turns the cart into an order and prompts payment
type CheckoutRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`

	// MpesaPhone defaults to the shipping phone when empty
	MpesaPhone string `json:"mpesa_phone"`
}

// CheckoutResponse carries the new order and its payment prompt
type CheckoutResponse struct {
	OrderID           uuid.UUID       `json:"order_id"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	CustomerMessage   string          `json:"customer_message,omitempty"`
}

// OrderItemResponse is one purchased line
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ListingID      uuid.UUID       `json:"listing_id"`
	StoreID        uuid.UUID       `json:"store_id"`
	Title          string          `json:"title"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Shipped        bool            `json:"shipped"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	BuyerID        uuid.UUID           `json:"buyer_id"`
	Status         string              `json:"status"`
	TotalPrice     decimal.Decimal     `json:"total_price"`
	Items          []OrderItemResponse `json:"items"`
	ContactName    string              `json:"contact_name"`
	ContactPhone   string              `json:"contact_phone"`
	Address        string              `json:"address"`
	City           string              `json:"city,omitempty"`
	DeliveryState  string              `json:"delivery_state"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	ShippedAt      *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderListQuery filters order listings
type OrderListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// OrderListResponse is a page of orders
type OrderListResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ToOrderResponse converts an order to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:             item.ID,
			ListingID:      item.ListingID,
			StoreID:        item.StoreID,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.TotalPrice(),
			Shipped:        item.Shipped,
			ShippedAt:      item.ShippedAt,
			TrackingNumber: item.TrackingNumber,
		}
	}

	return OrderResponse{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		Status:         string(o.Status),
		TotalPrice:     o.TotalPrice,
		Items:          items,
		ContactName:    o.BuyerName(),
		ContactPhone:   o.Shipping.Phone,
		Address:        o.Shipping.Address,
		City:           o.Shipping.City,
		DeliveryState:  string(o.DeliveryState),
		TrackingNumber: o.TrackingNumber,
		PaidAt:         o.PaidAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		CreatedAt:      o.CreatedAt,
	}
}

// ToOrderListResponses converts a page of orders
func ToOrderListResponses(orders []*order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}
