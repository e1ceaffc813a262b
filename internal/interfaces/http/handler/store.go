package handler

import (
	"context"

	storeapp "github.com/baysoko/backend/internal/application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreHandler handles storefront management endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// SetStoreImageRequest carries the storage key of an uploaded image
type SetStoreImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// Create opens a new storefront for the authenticated seller
func (h *StoreHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req storeapp.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.storeService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update changes a storefront's editable fields
func (h *StoreHandler) Update(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.storeService.Update(c.Request.Context(), ownerID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetLogo records the storage key of the store's logo image
func (h *StoreHandler) SetLogo(c *gin.Context) {
	h.setImage(c, h.storeService.SetLogo)
}

// SetCover records the storage key of the store's cover image
func (h *StoreHandler) SetCover(c *gin.Context) {
	h.setImage(c, h.storeService.SetCover)
}

func (h *StoreHandler) setImage(c *gin.Context, apply func(ctx context.Context, ownerID, storeID uuid.UUID, storageKey string) error) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req SetStoreImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := apply(c.Request.Context(), ownerID, storeID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"storage_key": req.StorageKey})
}

// Activate reopens a deactivated storefront
func (h *StoreHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.storeService.Activate)
}

// Deactivate takes a storefront offline
func (h *StoreHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.storeService.Deactivate)
}

func (h *StoreHandler) changeStatus(c *gin.Context, apply func(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error)) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	result, err := apply(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns a storefront with its rating aggregate
func (h *StoreHandler) Get(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	result, err := h.storeService.GetByID(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySlug returns a storefront by its public slug
func (h *StoreHandler) GetBySlug(c *gin.Context) {
	result, err := h.storeService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetMine lists the authenticated seller's storefronts
func (h *StoreHandler) GetMine(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.storeService.GetMyStores(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List searches active storefronts
func (h *StoreHandler) List(c *gin.Context) {
	var query storeapp.StoreListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	stores, total, err := h.storeService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, stores, total, query.Page, query.PageSize)
}
