package handler

import (
	storeapp "github.com/baysoko/backend/internal/application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BundleHandler handles product bundle endpoints
type BundleHandler struct {
	BaseHandler
	bundleService *storeapp.BundleService
}

// NewBundleHandler creates a new BundleHandler
func NewBundleHandler(bundleService *storeapp.BundleService) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
	}
}

// Create assembles a new bundle from a store's listings
func (h *BundleHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req storeapp.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.bundleService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update changes a bundle's editable fields
func (h *BundleHandler) Update(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID")
		return
	}

	var req storeapp.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.bundleService.Update(c.Request.Context(), ownerID, bundleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem adds a listing to a bundle
func (h *BundleHandler) AddItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID")
		return
	}

	var req storeapp.BundleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.bundleService.AddItem(c.Request.Context(), ownerID, bundleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem removes a listing from a bundle
func (h *BundleHandler) RemoveItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.bundleService.RemoveItem(c.Request.Context(), ownerID, bundleID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a bundle
func (h *BundleHandler) Delete(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID")
		return
	}

	if err := h.bundleService.Delete(c.Request.Context(), ownerID, bundleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns a bundle by ID
func (h *BundleHandler) Get(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID")
		return
	}

	result, err := h.bundleService.GetByID(c.Request.Context(), bundleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySlug returns a bundle by its public slug
func (h *BundleHandler) GetBySlug(c *gin.Context) {
	result, err := h.bundleService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByStore lists a store's bundles
func (h *BundleHandler) GetByStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	result, err := h.bundleService.GetByStore(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
