package handler

import (
	catalogapp "github.com/baysoko/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FAQHandler handles marketplace FAQ endpoints
type FAQHandler struct {
	BaseHandler
	faqService *catalogapp.FAQService
}

// NewFAQHandler creates a new FAQHandler
func NewFAQHandler(faqService *catalogapp.FAQService) *FAQHandler {
	return &FAQHandler{
		faqService: faqService,
	}
}

// SetFAQActiveRequest toggles a FAQ entry's visibility
type SetFAQActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Create adds a FAQ entry
func (h *FAQHandler) Create(c *gin.Context) {
	var req catalogapp.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.faqService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update edits a FAQ entry
func (h *FAQHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid FAQ ID")
		return
	}

	var req catalogapp.UpdateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.faqService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a FAQ entry
func (h *FAQHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid FAQ ID")
		return
	}

	if err := h.faqService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListActive returns the published FAQ entries
func (h *FAQHandler) ListActive(c *gin.Context) {
	result, err := h.faqService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAll returns every FAQ entry, drafts included
func (h *FAQHandler) ListAll(c *gin.Context) {
	result, err := h.faqService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetActive toggles a FAQ entry's visibility
func (h *FAQHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid FAQ ID")
		return
	}

	var req SetFAQActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.faqService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
