package handler

import (
	reviewapp "github.com/baysoko/backend/internal/application/review"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler handles listing, seller and order review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateListingReview posts a review on a listing
func (h *ReviewHandler) CreateListingReview(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req reviewapp.CreateListingReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.CreateListingReview(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// CreateSellerReview posts a review on a seller
func (h *ReviewHandler) CreateSellerReview(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req reviewapp.CreateSellerReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.CreateSellerReview(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// CreateOrderReview posts a review on a completed order
func (h *ReviewHandler) CreateOrderReview(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req reviewapp.CreateOrderReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.CreateOrderReview(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update edits the caller's own review
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req reviewapp.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.UpdateReview(c.Request.Context(), reviewerID, reviewID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes the caller's own review
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewerID, reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByListing lists a listing's reviews
func (h *ReviewHandler) ListByListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var query reviewapp.ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.reviewService.ListByListing(c.Request.Context(), listingID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListBySeller lists reviews left on a seller
func (h *ReviewHandler) ListBySeller(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	var query reviewapp.ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.reviewService.ListBySeller(c.Request.Context(), sellerID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetOrderReview returns the caller's review of an order
func (h *ReviewHandler) GetOrderReview(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.reviewService.GetOrderReview(c.Request.Context(), reviewerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetListingRating returns a listing's rating aggregate
func (h *ReviewHandler) GetListingRating(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.reviewService.ListingRating(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
