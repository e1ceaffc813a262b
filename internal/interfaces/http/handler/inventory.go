package handler

import (
	"strconv"

	inventoryapp "github.com/baysoko/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler handles stock alert and adjustment endpoints
type InventoryHandler struct {
	BaseHandler
	alertService *inventoryapp.AlertService
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(alertService *inventoryapp.AlertService, stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{
		alertService: alertService,
		stockService: stockService,
	}
}

// SetAlertRule configures a stock watch on one of the seller's
// listings. Requires a premium store.
func (h *InventoryHandler) SetAlertRule(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.SetAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.alertService.SetRule(c.Request.Context(), sellerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// RemoveAlertRule deletes a stock watch
func (h *InventoryHandler) RemoveAlertRule(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ruleID, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.alertService.RemoveRule(c.Request.Context(), sellerID, ruleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListAlertRules lists a store's stock watches
func (h *InventoryHandler) ListAlertRules(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	result, err := h.alertService.ListRules(c.Request.Context(), sellerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAlerts lists a store's raised stock alerts
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	includeAcknowledged, _ := strconv.ParseBool(c.DefaultQuery("include_acknowledged", "false"))

	result, err := h.alertService.ListAlerts(c.Request.Context(), sellerID, storeID, includeAcknowledged)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AcknowledgeAlert marks a raised alert as handled
func (h *InventoryHandler) AcknowledgeAlert(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	alertID, err := uuid.Parse(c.Param("alertId"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	result, err := h.alertService.AcknowledgeAlert(c.Request.Context(), sellerID, alertID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AdjustStock sets a listing's stock to an absolute level and records
// the movement
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.stockService.AdjustStock(c.Request.Context(), sellerID, listingID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMovements pages through a store's stock audit trail
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query inventoryapp.MovementListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.stockService.ListMovements(c.Request.Context(), sellerID, storeID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
