package handler

import (
	"io"
	"net/http"

	bulkapp "github.com/baysoko/backend/internal/application/bulk"
	"github.com/baysoko/backend/internal/domain/bulk"
	"github.com/baysoko/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImportBytes caps uploaded CSV files at 5MB
const maxImportBytes = 5 << 20

// ImportHandler handles bulk listing import endpoints
type ImportHandler struct {
	BaseHandler
	importService  *bulkapp.ListingImportService
	historyService *bulkapp.ImportHistoryService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *bulkapp.ListingImportService, historyService *bulkapp.ImportHistoryService) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		historyService: historyService,
	}
}

// ImportCSV ingests a multipart CSV upload of listings. Premium
// stores only.
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListingImportRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "store_id is required and conflict_mode must be skip, update or fail")
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	mode := bulk.ConflictMode(req.ConflictMode)
	if req.ConflictMode == "" {
		mode = bulk.ConflictModeSkip
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "CSV file is required in the 'file' field")
		return
	}
	if fileHeader.Size > maxImportBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest, "CSV file exceeds the 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Unable to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
	if err != nil {
		h.InternalError(c, "Unable to read uploaded file")
		return
	}
	if int64(len(data)) > maxImportBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest, "CSV file exceeds the 5MB limit")
		return
	}

	result, err := h.importService.ImportCSV(c.Request.Context(), sellerID, storeID, fileHeader.Filename, data, mode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListUploads pages through a store's import history
func (h *ImportHandler) ListUploads(c *gin.Context) {
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

	var query bulkapp.ImportHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.historyService.ListUploads(c.Request.Context(), sellerID, storeID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetUpload returns one upload with its error details
func (h *ImportHandler) GetUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid upload ID")
		return
	}

	result, err := h.historyService.GetUpload(c.Request.Context(), sellerID, uploadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelUpload cancels an upload that has not started processing
func (h *ImportHandler) CancelUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid upload ID")
		return
	}

	result, err := h.historyService.CancelUpload(c.Request.Context(), sellerID, uploadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
