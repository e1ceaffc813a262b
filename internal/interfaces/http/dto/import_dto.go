package dto

// ListingImportRequest carries the multipart form fields that accompany
// a bulk listing CSV upload.
type ListingImportRequest struct {
	StoreID      string `form:"store_id" binding:"required,uuid"`
	ConflictMode string `form:"conflict_mode" binding:"omitempty,oneof=skip update fail"`
}
