package handler

import (
	deliveryapp "github.com/baysoko/backend/internal/application/delivery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeliveryHandler handles courier delivery endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *deliveryapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *deliveryapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// AssignZoneRequest picks the delivery zone for a request
type AssignZoneRequest struct {
	ZoneID uuid.UUID `json:"zone_id" binding:"required"`
}

// Create opens a delivery request for a paid order
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req deliveryapp.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.deliveryService.CreateFromOrder(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a delivery with its status history
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	result, err := h.deliveryService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Track returns the public tracking view for a tracking number
func (h *DeliveryHandler) Track(c *gin.Context) {
	result, err := h.deliveryService.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List pages through deliveries with status and zone filters
func (h *DeliveryHandler) List(c *gin.Context) {
	var query deliveryapp.DeliveryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.deliveryService.List(c.Request.Context(), &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus moves a delivery along its lifecycle
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req deliveryapp.UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.deliveryService.UpdateStatus(c.Request.Context(), id, &callerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssignZone attaches a delivery zone, setting the delivery fee
func (h *DeliveryHandler) AssignZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req AssignZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.deliveryService.AssignZone(c.Request.Context(), id, req.ZoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssignCourier records who carries the package
func (h *DeliveryHandler) AssignCourier(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req deliveryapp.AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.deliveryService.AssignCourier(c.Request.Context(), id, &callerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
