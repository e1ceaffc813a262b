package handler

import (
	orderapp "github.com/baysoko/backend/internal/application/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	BaseHandler
	cartService     *orderapp.CartService
	checkoutService *orderapp.CheckoutService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *orderapp.CartService, checkoutService *orderapp.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// AddItem adds a listing to the caller's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateItem sets a cart line's quantity; zero removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req orderapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), userID, listingID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem removes a listing from the caller's cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), userID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns the caller's cart priced at current listing prices
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Clear empties the caller's cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Checkout turns the cart into an order, reserves stock and fires an
// M-Pesa STK push for the total
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
