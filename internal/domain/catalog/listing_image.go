package catalog

import (
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxListingImageSize is the maximum allowed image size (10MB)
const MaxListingImageSize = 10 * 1024 * 1024

// ImageStatus represents the status of a listing image
type ImageStatus string

const (
	ImageStatusPending ImageStatus = "pending"
	ImageStatusActive  ImageStatus = "active"
	ImageStatusDeleted ImageStatus = "deleted"
)

// IsValid checks if the image status is valid
func (s ImageStatus) IsValid() bool {
	switch s {
	case ImageStatusPending, ImageStatusActive, ImageStatusDeleted:
		return true
	default:
		return false
	}
}

// allowedImageContentTypes lists the MIME types accepted for uploads
var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ListingImage represents a photo attached to a listing. Images are
// created pending, and confirmed once the upload to object storage
// completes.
type ListingImage struct {
	shared.BaseAggregateRoot
	ListingID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status       ImageStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	FileName     string      `gorm:"type:varchar(255);not null"`
	FileSize     int64       `gorm:"not null"`
	ContentType  string      `gorm:"type:varchar(100);not null"`
	StorageKey   string      `gorm:"type:varchar(500);not null"`
	ThumbnailKey string      `gorm:"type:varchar(500)"`
	Caption      string      `gorm:"type:varchar(200)"`
	Main         bool        `gorm:"not null;default:false"`
	SortOrder    int         `gorm:"not null;default:0"`
	UploadedBy   *uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ListingImage) TableName() string {
	return "listing_images"
}

// NewListingImage creates a new listing image in pending status
func NewListingImage(
	listingID uuid.UUID,
	fileName string,
	fileSize int64,
	contentType string,
	storageKey string,
	uploadedBy *uuid.UUID,
) (*ListingImage, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if err := validateImageFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateImageFileSize(fileSize); err != nil {
		return nil, err
	}
	if err := validateImageContentType(contentType); err != nil {
		return nil, err
	}
	if err := validateImageStorageKey(storageKey); err != nil {
		return nil, err
	}

	image := &ListingImage{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ListingID:         listingID,
		Status:            ImageStatusPending,
		FileName:          fileName,
		FileSize:          fileSize,
		ContentType:       contentType,
		StorageKey:        storageKey,
		UploadedBy:        uploadedBy,
	}

	image.AddDomainEvent(NewListingImageCreatedEvent(image))

	return image, nil
}

// Confirm activates the image after the upload to storage completes
func (i *ListingImage) Confirm() error {
	if i.Status == ImageStatusActive {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Image is already confirmed")
	}
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm a deleted image")
	}

	i.Status = ImageStatusActive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewListingImageConfirmedEvent(i))

	return nil
}

// Delete marks the image as deleted (soft delete)
func (i *ListingImage) Delete() error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Image is already deleted")
	}

	i.Status = ImageStatusDeleted
	i.Main = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewListingImageDeletedEvent(i))

	return nil
}

// SetAsMain promotes the image to the listing's main photo.
// The application layer demotes the previous main image.
func (i *ListingImage) SetAsMain() error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if i.Main {
		return shared.NewDomainError("ALREADY_MAIN_IMAGE", "Image is already the main image")
	}

	i.Main = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Demote clears the main flag
func (i *ListingImage) Demote() {
	if !i.Main {
		return
	}
	i.Main = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// SetCaption sets the image caption
func (i *ListingImage) SetCaption(caption string) error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if len(caption) > 200 {
		return shared.NewDomainError("INVALID_CAPTION", "Caption cannot exceed 200 characters")
	}

	i.Caption = caption
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order of the image
func (i *ListingImage) SetSortOrder(order int) error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if order < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}

	i.SortOrder = order
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetThumbnailKey sets the storage key for the generated thumbnail
func (i *ListingImage) SetThumbnailKey(key string) error {
	if i.Status == ImageStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update a deleted image")
	}
	if err := validateImageStorageKey(key); err != nil {
		return err
	}

	i.ThumbnailKey = key
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsPending returns true if the image is awaiting upload confirmation
func (i *ListingImage) IsPending() bool {
	return i.Status == ImageStatusPending
}

// IsActive returns true if the image is visible
func (i *ListingImage) IsActive() bool {
	return i.Status == ImageStatusActive
}

// IsDeleted returns true if the image is deleted
func (i *ListingImage) IsDeleted() bool {
	return i.Status == ImageStatusDeleted
}

// validation functions

func validateImageFileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateImageFileSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxListingImageSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "Image size cannot exceed 10MB")
	}
	return nil
}

func validateImageContentType(contentType string) error {
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if !allowedImageContentTypes[strings.ToLower(contentType)] {
		return shared.NewDomainError("UNSUPPORTED_IMAGE_TYPE", "Only JPEG, PNG, WebP and GIF images are accepted")
	}
	return nil
}

func validateImageStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}
