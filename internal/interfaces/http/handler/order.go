package handler

import (
	orderapp "github.com/baysoko/backend/internal/application/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order endpoints for buyers and sellers
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ShipItemRequest records a tracking number for a shipped line
type ShipItemRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
}

// Get returns an order visible to the caller
func (h *OrderHandler) Get(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetOrder(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMine lists the caller's orders as a buyer
func (h *OrderHandler) ListMine(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query orderapp.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListMyOrders(c.Request.Context(), buyerID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListStoreOrders lists orders containing a store's listings. Only the
// store owner may call it.
func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query orderapp.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListStoreOrders(c.Request.Context(), callerID, storeID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Confirm acknowledges a paid order on behalf of the seller
func (h *OrderHandler) Confirm(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.ConfirmOrder(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ShipItem marks one order line as shipped with its tracking number
func (h *OrderHandler) ShipItem(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}

	var req ShipItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.ShipItem(c.Request.Context(), callerID, orderID, itemID, req.TrackingNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels an unshipped order and releases its stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.CancelOrder(c.Request.Context(), callerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
