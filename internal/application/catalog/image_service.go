package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedImageContentTypes defines the whitelist of content types
// accepted for listing photos. SVG is excluded because it can carry
// scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ObjectStorageService defines the interface for object storage
// operations, implemented by the infrastructure layer (S3 or the
// local stub)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageServiceConfig holds configuration for the image service
type ImageServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
	// MaxImagesPerListing is the maximum number of photos per listing
	MaxImagesPerListing int
	// StalePendingAge is how long a pending upload may sit before the
	// cleanup sweep removes it
	StalePendingAge time.Duration
}

// DefaultImageServiceConfig returns the default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry:     15 * time.Minute,
		DownloadURLExpiry:   1 * time.Hour,
		MaxImagesPerListing: 10,
		StalePendingAge:     24 * time.Hour,
	}
}

// ImageService handles listing photo uploads through presigned URLs
type ImageService struct {
	imageRepo      catalog.ListingImageRepository
	listingRepo    catalog.ListingRepository
	storageService ObjectStorageService
	config         ImageServiceConfig
	logger         *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	imageRepo catalog.ListingImageRepository,
	listingRepo catalog.ListingRepository,
	storageService ObjectStorageService,
	logger *zap.Logger,
) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		imageRepo:      imageRepo,
		listingRepo:    listingRepo,
		storageService: storageService,
		config:         DefaultImageServiceConfig(),
		logger:         logger,
	}
}

// SetConfig sets the service configuration
func (s *ImageService) SetConfig(config ImageServiceConfig) {
	s.config = config
}

// InitiateUpload creates a pending image record and returns a
// presigned upload URL
func (s *ImageService) InitiateUpload(ctx context.Context, sellerID uuid.UUID, req InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	listing, err := s.findOwnedListing(ctx, sellerID, req.ListingID)
	if err != nil {
		return nil, err
	}

	count, err := s.imageRepo.CountActiveByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxImagesPerListing) {
		return nil, shared.NewDomainError("IMAGE_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d photos per listing allowed", s.config.MaxImagesPerListing))
	}

	if !isAllowedImageContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: JPEG, PNG, WebP and GIF.", req.ContentType))
	}

	storageKey := s.generateStorageKey(listing.StoreID, listing.ID, req.FileName)

	image, err := catalog.NewListingImage(
		listing.ID,
		req.FileName,
		req.FileSize,
		strings.ToLower(req.ContentType),
		storageKey,
		&sellerID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.imageRepo.Save(ctx, image); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(
		ctx,
		storageKey,
		image.ContentType,
		s.config.UploadURLExpiry,
	)
	if err != nil {
		// Clean up the image record if URL generation fails
		_ = s.imageRepo.Delete(ctx, image.ID)
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateImageUploadResponse{
		ImageID:   image.ID,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload verifies the upload landed in storage and activates
// the image. The first confirmed photo becomes the listing's main
// image.
func (s *ImageService) ConfirmUpload(ctx context.Context, sellerID, imageID uuid.UUID) (*ImageResponse, error) {
	image, err := s.findOwnedImage(ctx, sellerID, imageID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storageService.ObjectExists(ctx, image.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND",
			"File not found in storage. Please upload the file first.")
	}

	if err := image.Confirm(); err != nil {
		return nil, err
	}

	count, err := s.imageRepo.CountActiveByListing(ctx, image.ListingID)
	if err != nil {
		return nil, err
	}
	if err := image.SetSortOrder(int(count)); err != nil {
		return nil, err
	}

	if count == 0 {
		if err := image.SetAsMain(); err != nil {
			return nil, err
		}
	}

	if err := s.imageRepo.Save(ctx, image); err != nil {
		return nil, err
	}

	s.logger.Info("listing image confirmed",
		zap.String("image_id", image.ID.String()),
		zap.String("listing_id", image.ListingID.String()))

	response := ToImageResponse(image)
	s.enrichWithURLs(ctx, &response, image)
	return &response, nil
}

// GetByListing retrieves a listing's confirmed photos in display order
func (s *ImageService) GetByListing(ctx context.Context, listingID uuid.UUID) ([]ImageResponse, error) {
	images, err := s.imageRepo.FindActiveByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	responses := ToImageResponses(images)
	for i := range images {
		s.enrichWithURLs(ctx, &responses[i], &images[i])
	}
	return responses, nil
}

// GetMainImage retrieves the listing's main photo
func (s *ImageService) GetMainImage(ctx context.Context, listingID uuid.UUID) (*ImageResponse, error) {
	image, err := s.imageRepo.FindMainImage(ctx, listingID)
	if err != nil {
		return nil, err
	}

	response := ToImageResponse(image)
	s.enrichWithURLs(ctx, &response, image)
	return &response, nil
}

// Delete marks an image as deleted (soft delete)
func (s *ImageService) Delete(ctx context.Context, sellerID, imageID uuid.UUID) error {
	image, err := s.findOwnedImage(ctx, sellerID, imageID)
	if err != nil {
		return err
	}

	if err := image.Delete(); err != nil {
		return err
	}

	return s.imageRepo.Save(ctx, image)
}

// PermanentDelete removes an image and its storage objects
func (s *ImageService) PermanentDelete(ctx context.Context, sellerID, imageID uuid.UUID) error {
	image, err := s.findOwnedImage(ctx, sellerID, imageID)
	if err != nil {
		return err
	}

	s.deleteStorageObjects(ctx, image)

	return s.imageRepo.Delete(ctx, image.ID)
}

// SetAsMain promotes an image to the listing's main photo, demoting
// the previous one
func (s *ImageService) SetAsMain(ctx context.Context, sellerID, imageID uuid.UUID) (*ImageResponse, error) {
	image, err := s.findOwnedImage(ctx, sellerID, imageID)
	if err != nil {
		return nil, err
	}

	if !image.IsActive() {
		return nil, shared.NewDomainError("IMAGE_NOT_CONFIRMED",
			"Only confirmed images can be set as main image")
	}

	currentMain, err := s.imageRepo.FindMainImage(ctx, image.ListingID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	toSave := []*catalog.ListingImage{image}
	if currentMain != nil && currentMain.ID != imageID {
		currentMain.Demote()
		toSave = append(toSave, currentMain)
	}

	if err := image.SetAsMain(); err != nil {
		return nil, err
	}

	if err := s.imageRepo.SaveBatch(ctx, toSave); err != nil {
		return nil, err
	}

	response := ToImageResponse(image)
	s.enrichWithURLs(ctx, &response, image)
	return &response, nil
}

// SetCaption sets an image's caption
func (s *ImageService) SetCaption(ctx context.Context, sellerID, imageID uuid.UUID, req SetImageCaptionRequest) (*ImageResponse, error) {
	image, err := s.findOwnedImage(ctx, sellerID, imageID)
	if err != nil {
		return nil, err
	}

	if err := image.SetCaption(req.Caption); err != nil {
		return nil, err
	}

	if err := s.imageRepo.Save(ctx, image); err != nil {
		return nil, err
	}

	response := ToImageResponse(image)
	s.enrichWithURLs(ctx, &response, image)
	return &response, nil
}

// Reorder updates the display order of a listing's photos. The IDs
// must cover existing, non-deleted images of the listing.
func (s *ImageService) Reorder(ctx context.Context, sellerID, listingID uuid.UUID, req ReorderImagesRequest) ([]ImageResponse, error) {
	if _, err := s.findOwnedListing(ctx, sellerID, listingID); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.FindByIDs(ctx, req.ImageIDs)
	if err != nil {
		return nil, err
	}

	imageMap := make(map[uuid.UUID]*catalog.ListingImage)
	for i := range images {
		img := &images[i]
		if img.ListingID != listingID {
			return nil, shared.NewDomainError("INVALID_IMAGE",
				fmt.Sprintf("Image %s does not belong to this listing", img.ID))
		}
		if img.IsDeleted() {
			return nil, shared.NewDomainError("IMAGE_DELETED",
				fmt.Sprintf("Image %s is deleted", img.ID))
		}
		imageMap[img.ID] = img
	}

	if len(imageMap) != len(req.ImageIDs) {
		return nil, shared.NewDomainError("IMAGES_NOT_FOUND", "Some images were not found")
	}

	ordered := make([]*catalog.ListingImage, len(req.ImageIDs))
	for i, id := range req.ImageIDs {
		img := imageMap[id]
		if err := img.SetSortOrder(i); err != nil {
			return nil, err
		}
		ordered[i] = img
	}

	if err := s.imageRepo.SaveBatch(ctx, ordered); err != nil {
		return nil, err
	}

	responses := make([]ImageResponse, len(ordered))
	for i, img := range ordered {
		responses[i] = ToImageResponse(img)
		s.enrichWithURLs(ctx, &responses[i], img)
	}
	return responses, nil
}

// CleanupStalePending removes pending images whose upload never
// completed, along with any storage objects they left behind. Returns
// the number of images removed.
func (s *ImageService) CleanupStalePending(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	stale, err := s.imageRepo.FindStalePending(ctx, int(s.config.StalePendingAge.Seconds()), limit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range stale {
		img := &stale[i]
		s.deleteStorageObjects(ctx, img)
		if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
			s.logger.Warn("failed to delete stale pending image",
				zap.String("image_id", img.ID.String()),
				zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("cleaned up stale pending images", zap.Int("removed", removed))
	}
	return removed, nil
}

// helpers

// findOwnedListing loads a listing and verifies the seller owns it
func (s *ImageService) findOwnedListing(ctx context.Context, sellerID, listingID uuid.UUID) (*catalog.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, shared.NewDomainError("NOT_LISTING_OWNER", "Only the seller can manage this listing's photos")
	}
	return listing, nil
}

// findOwnedImage loads an image and verifies the seller owns its listing
func (s *ImageService) findOwnedImage(ctx context.Context, sellerID, imageID uuid.UUID) (*catalog.ListingImage, error) {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("IMAGE_NOT_FOUND", "Image not found")
		}
		return nil, err
	}
	if _, err := s.findOwnedListing(ctx, sellerID, image.ListingID); err != nil {
		return nil, err
	}
	return image, nil
}

// generateStorageKey generates a unique storage key for a photo
func (s *ImageService) generateStorageKey(storeID, listingID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	// Format: stores/{storeID}/listings/{listingID}/images/{uniqueID}{ext}
	return fmt.Sprintf("stores/%s/listings/%s/images/%s%s",
		storeID.String(),
		listingID.String(),
		uuid.New().String(),
		ext,
	)
}

// deleteStorageObjects removes the image's objects from storage. A
// failure is logged and not propagated, the object may already be gone.
func (s *ImageService) deleteStorageObjects(ctx context.Context, image *catalog.ListingImage) {
	if err := s.storageService.DeleteObject(ctx, image.StorageKey); err != nil {
		s.logger.Warn("failed to delete image from storage",
			zap.String("image_id", image.ID.String()),
			zap.String("storage_key", image.StorageKey),
			zap.Error(err))
	}
	if image.ThumbnailKey != "" {
		if err := s.storageService.DeleteObject(ctx, image.ThumbnailKey); err != nil {
			s.logger.Warn("failed to delete thumbnail from storage",
				zap.String("image_id", image.ID.String()),
				zap.String("thumbnail_key", image.ThumbnailKey),
				zap.Error(err))
		}
	}
}

// enrichWithURLs adds presigned download URLs to an image response
func (s *ImageService) enrichWithURLs(ctx context.Context, response *ImageResponse, image *catalog.ListingImage) {
	if !image.IsActive() {
		return
	}

	url, _, err := s.storageService.GenerateDownloadURL(ctx, image.StorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		response.URL = url
	}

	if image.ThumbnailKey != "" {
		thumbURL, _, err := s.storageService.GenerateDownloadURL(ctx, image.ThumbnailKey, s.config.DownloadURLExpiry)
		if err == nil {
			response.ThumbnailURL = thumbURL
		}
	}
}

// isAllowedImageContentType checks a content type against the whitelist
func isAllowedImageContentType(contentType string) bool {
	return AllowedImageContentTypes[strings.ToLower(contentType)]
}
