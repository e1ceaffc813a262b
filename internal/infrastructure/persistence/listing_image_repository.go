package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingImageRepository implements ListingImageRepository using GORM
type GormListingImageRepository struct {
	db *gorm.DB
}

// NewGormListingImageRepository creates a new GormListingImageRepository
func NewGormListingImageRepository(db *gorm.DB) *GormListingImageRepository {
	return &GormListingImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormListingImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ListingImage, error) {
	var image catalog.ListingImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByIDs finds multiple images by their IDs
func (r *GormListingImageRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ListingImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []catalog.ListingImage
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindByListing finds all images for a listing in display order
func (r *GormListingImageRepository) FindByListing(ctx context.Context, listingID uuid.UUID) ([]catalog.ListingImage, error) {
	var images []catalog.ListingImage
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindActiveByListing finds confirmed images for a listing in display order
func (r *GormListingImageRepository) FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]catalog.ListingImage, error) {
	var images []catalog.ListingImage
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, catalog.ImageStatusActive).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindMainImage finds the main image for a listing
func (r *GormListingImageRepository) FindMainImage(ctx context.Context, listingID uuid.UUID) (*catalog.ListingImage, error) {
	var image catalog.ListingImage
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND main = true AND status = ?", listingID, catalog.ImageStatusActive).
		First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// CountActiveByListing counts confirmed images for a listing
func (r *GormListingImageRepository) CountActiveByListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.ListingImage{}).
		Where("listing_id = ? AND status = ?", listingID, catalog.ImageStatusActive).
		Count(&count).Error
	return count, err
}

// ExistsByStorageKey checks if an image with the given storage key exists
func (r *GormListingImageRepository) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ListingImage{}).
		Where("storage_key = ?", storageKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindStalePending finds pending images older than the given age in seconds
func (r *GormListingImageRepository) FindStalePending(ctx context.Context, olderThanSeconds int, limit int) ([]catalog.ListingImage, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanSeconds) * time.Second)
	var images []catalog.ListingImage
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", catalog.ImageStatusPending, cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Save creates or updates an image
func (r *GormListingImageRepository) Save(ctx context.Context, image *catalog.ListingImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// SaveBatch creates or updates multiple images
func (r *GormListingImageRepository) SaveBatch(ctx context.Context, images []*catalog.ListingImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, image := range images {
			if err := tx.Save(image).Error; err != nil {
				return fmt.Errorf("saving image %d: %w", i, err)
			}
		}
		return nil
	})
}

// Delete permanently deletes an image
func (r *GormListingImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.ListingImage{}, "id = ?", id).Error
}

// DeleteByListing permanently deletes all images for a listing
func (r *GormListingImageRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&catalog.ListingImage{}).Error
}
