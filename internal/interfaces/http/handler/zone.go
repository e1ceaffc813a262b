package handler

import (
	deliveryapp "github.com/baysoko/backend/internal/application/delivery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ZoneHandler handles delivery zone endpoints
type ZoneHandler struct {
	BaseHandler
	zoneService *deliveryapp.ZoneService
}

// NewZoneHandler creates a new ZoneHandler
func NewZoneHandler(zoneService *deliveryapp.ZoneService) *ZoneHandler {
	return &ZoneHandler{
		zoneService: zoneService,
	}
}

// SetZoneActiveRequest toggles a zone's availability
type SetZoneActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Create adds a delivery zone
func (h *ZoneHandler) Create(c *gin.Context) {
	var req deliveryapp.ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.zoneService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update edits a delivery zone
func (h *ZoneHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	var req deliveryapp.ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.zoneService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetActive toggles a zone's availability
func (h *ZoneHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	var req SetZoneActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.zoneService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListActive returns the zones currently accepting deliveries
func (h *ZoneHandler) ListActive(c *gin.Context) {
	result, err := h.zoneService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
