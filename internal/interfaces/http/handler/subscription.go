package handler

import (
	subscriptionapp "github.com/baysoko/backend/internal/application/subscription"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriptionHandler handles store subscription endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *subscriptionapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *subscriptionapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// ListPlans returns the pricing tiers
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	h.Success(c, subscriptionapp.ListPlans())
}

// StartTrial begins a store's one-off free trial
func (h *SubscriptionHandler) StartTrial(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req subscriptionapp.StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.subscriptionService.StartTrial(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Subscribe buys a subscription period via M-Pesa STK push. The
// subscription activates when the payment callback settles.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req subscriptionapp.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.subscriptionService.Subscribe(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Cancel stops a subscription at the end of its paid period
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return
	}

	result, err := h.subscriptionService.Cancel(c.Request.Context(), ownerID, subscriptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangePlan switches a subscription's tier
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return
	}

	var req subscriptionapp.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.subscriptionService.ChangePlan(c.Request.Context(), ownerID, subscriptionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetCurrent returns a store's active subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	result, err := h.subscriptionService.GetCurrent(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMine lists subscriptions across the caller's stores
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.subscriptionService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
