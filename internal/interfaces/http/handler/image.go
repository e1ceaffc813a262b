package handler

import (
	catalogapp "github.com/baysoko/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImageHandler handles listing image upload and management endpoints
type ImageHandler struct {
	BaseHandler
	imageService *catalogapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *catalogapp.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// InitiateUpload reserves an image slot and returns a presigned
// upload URL
func (h *ImageHandler) InitiateUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.InitiateImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.imageService.InitiateUpload(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ConfirmUpload marks an uploaded image as ready to serve
func (h *ImageHandler) ConfirmUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return
	}

	result, err := h.imageService.ConfirmUpload(c.Request.Context(), sellerID, imageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByListing lists a listing's images in display order
func (h *ImageHandler) GetByListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.imageService.GetByListing(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete soft-deletes an image
func (h *ImageHandler) Delete(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), sellerID, imageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetAsMain selects the image shown in listing cards
func (h *ImageHandler) SetAsMain(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return
	}

	result, err := h.imageService.SetAsMain(c.Request.Context(), sellerID, imageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetCaption sets an image's caption text
func (h *ImageHandler) SetCaption(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return
	}

	var req catalogapp.SetImageCaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.imageService.SetCaption(c.Request.Context(), sellerID, imageID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reorder rearranges a listing's images
func (h *ImageHandler) Reorder(c *gin.Context) {
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

	var req catalogapp.ReorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.imageService.Reorder(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
