package handler

import (
	"context"
	"strconv"

	catalogapp "github.com/baysoko/backend/internal/application/catalog"
	"github.com/baysoko/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingHandler handles listing management and browsing endpoints
type ListingHandler struct {
	BaseHandler
	listingService *catalogapp.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *catalogapp.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// viewerID returns the authenticated user's ID when present. Browsing
// endpoints work anonymously, so a missing token is not an error.
func viewerID(c *gin.Context) *uuid.UUID {
	idStr := middleware.GetJWTUserID(c)
	if idStr == "" {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	return &id
}

func limitQuery(c *gin.Context, defaultLimit, maxLimit int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Create publishes a new listing in the seller's store
func (h *ListingHandler) Create(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update changes a listing's editable fields
func (h *ListingHandler) Update(c *gin.Context) {
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

	var req catalogapp.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.Update(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangePrice sets a new base price and records it in the history
func (h *ListingHandler) ChangePrice(c *gin.Context) {
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

	var req catalogapp.ChangePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.ChangePrice(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ApplyDiscount puts a listing on sale
func (h *ListingHandler) ApplyDiscount(c *gin.Context) {
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

	var req catalogapp.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.ApplyDiscount(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ClearDiscount ends a listing's sale
func (h *ListingHandler) ClearDiscount(c *gin.Context) {
	h.sellerAction(c, h.listingService.ClearDiscount)
}

// Feature promotes a listing on the landing page. Requires a
// premium store.
func (h *ListingHandler) Feature(c *gin.Context) {
	h.sellerAction(c, h.listingService.Feature)
}

// Unfeature removes a listing from the featured rotation
func (h *ListingHandler) Unfeature(c *gin.Context) {
	h.sellerAction(c, h.listingService.Unfeature)
}

// Activate republishes a deactivated listing
func (h *ListingHandler) Activate(c *gin.Context) {
	h.sellerAction(c, h.listingService.Activate)
}

// Deactivate hides a listing from buyers
func (h *ListingHandler) Deactivate(c *gin.Context) {
	h.sellerAction(c, h.listingService.Deactivate)
}

func (h *ListingHandler) sellerAction(c *gin.Context, apply func(ctx context.Context, sellerID, listingID uuid.UUID) (*catalogapp.ListingResponse, error)) {
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

	result, err := apply(c.Request.Context(), sellerID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a listing that has no open orders
func (h *ListingHandler) Delete(c *gin.Context) {
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

	if err := h.listingService.Delete(c.Request.Context(), sellerID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns a listing and records the view
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.listingService.GetByID(c.Request.Context(), listingID, viewerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySlug returns a listing by its public slug
func (h *ListingHandler) GetBySlug(c *gin.Context) {
	result, err := h.listingService.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List searches active listings with filters and sorting
func (h *ListingHandler) List(c *gin.Context) {
	var query catalogapp.ListingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	listings, total, err := h.listingService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, listings, total, query.Page, query.PageSize)
}

// GetByStore lists a store's listings
func (h *ListingHandler) GetByStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query catalogapp.ListingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	listings, total, err := h.listingService.GetByStore(c.Request.Context(), storeID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, listings, total, query.Page, query.PageSize)
}

// GetFeatured returns the featured listing rotation
func (h *ListingHandler) GetFeatured(c *gin.Context) {
	result, err := h.listingService.GetFeatured(c.Request.Context(), limitQuery(c, 12, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetTrending returns the most viewed listings
func (h *ListingHandler) GetTrending(c *gin.Context) {
	result, err := h.listingService.GetTrending(c.Request.Context(), limitQuery(c, 12, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Favorite saves a listing to the caller's favorites
func (h *ListingHandler) Favorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.listingService.Favorite(c.Request.Context(), userID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"favorited": true})
}

// Unfavorite removes a listing from the caller's favorites
func (h *ListingHandler) Unfavorite(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.listingService.Unfavorite(c.Request.Context(), userID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"favorited": false})
}

// GetFavorites lists the caller's saved listings
func (h *ListingHandler) GetFavorites(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	favorites, total, err := h.listingService.GetFavorites(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, favorites, total, page, pageSize)
}

// GetPriceHistory returns a listing's recorded price points
func (h *ListingHandler) GetPriceHistory(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.listingService.GetPriceHistory(c.Request.Context(), listingID, limitQuery(c, 30, 100))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetRecentlyViewed returns the caller's browsing history
func (h *ListingHandler) GetRecentlyViewed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.listingService.GetRecentlyViewed(c.Request.Context(), userID, limitQuery(c, 10, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
