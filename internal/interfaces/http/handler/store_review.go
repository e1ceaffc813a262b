package handler

import (
	"strconv"

	storeapp "github.com/baysoko/backend/internal/application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreReviewHandler handles storefront review endpoints
type StoreReviewHandler struct {
	BaseHandler
	reviewService *storeapp.ReviewService
}

// NewStoreReviewHandler creates a new StoreReviewHandler
func NewStoreReviewHandler(reviewService *storeapp.ReviewService) *StoreReviewHandler {
	return &StoreReviewHandler{
		reviewService: reviewService,
	}
}

// Create posts a review on a storefront
func (h *StoreReviewHandler) Create(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req storeapp.CreateStoreReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.Create(c.Request.Context(), reviewerID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update edits the caller's own review
func (h *StoreReviewHandler) Update(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req storeapp.UpdateStoreReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.Update(c.Request.Context(), reviewerID, reviewID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes the caller's own review
func (h *StoreReviewHandler) Delete(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewerID, reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByStore lists a storefront's reviews, newest first
func (h *StoreReviewHandler) ListByStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.reviewService.ListByStore(c.Request.Context(), storeID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkHelpful bumps a review's helpful counter
func (h *StoreReviewHandler) MarkHelpful(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	result, err := h.reviewService.MarkHelpful(c.Request.Context(), userID, reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
