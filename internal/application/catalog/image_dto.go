package catalog

import (
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// InitiateImageUploadRequest represents a request to start an image upload
type InitiateImageUploadRequest struct {
	ListingID   uuid.UUID `json:"listing_id" binding:"required"`
	FileName    string    `json:"file_name" binding:"required,min=1,max=255"`
	FileSize    int64     `json:"file_size" binding:"required,min=1"`
	ContentType string    `json:"content_type" binding:"required"`
}

// InitiateImageUploadResponse carries the presigned upload URL
type InitiateImageUploadResponse struct {
	ImageID   uuid.UUID `json:"image_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SetImageCaptionRequest represents a request to caption an image
type SetImageCaptionRequest struct {
	Caption string `json:"caption" binding:"max=200"`
}

// ReorderImagesRequest represents a request to reorder a listing's images
type ReorderImagesRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" binding:"required,min=1"`
}

// ImageResponse represents a listing image in API responses
type ImageResponse struct {
	ID           uuid.UUID `json:"id"`
	ListingID    uuid.UUID `json:"listing_id"`
	Status       string    `json:"status"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	ContentType  string    `json:"content_type"`
	Caption      string    `json:"caption,omitempty"`
	Main         bool      `json:"main"`
	SortOrder    int       `json:"sort_order"`
	URL          string    `json:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToImageResponse converts a listing image to its API representation
func ToImageResponse(image *catalog.ListingImage) ImageResponse {
	return ImageResponse{
		ID:          image.ID,
		ListingID:   image.ListingID,
		Status:      string(image.Status),
		FileName:    image.FileName,
		FileSize:    image.FileSize,
		ContentType: image.ContentType,
		Caption:     image.Caption,
		Main:        image.Main,
		SortOrder:   image.SortOrder,
		CreatedAt:   image.CreatedAt,
	}
}

// ToImageResponses converts listing images to their API representation
func ToImageResponses(images []catalog.ListingImage) []ImageResponse {
	responses := make([]ImageResponse, len(images))
	for i := range images {
		responses[i] = ToImageResponse(&images[i])
	}
	return responses
}
