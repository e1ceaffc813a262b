package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBundleRepository implements BundleRepository using GORM
type GormBundleRepository struct {
	db *gorm.DB
}

// NewGormBundleRepository creates a new GormBundleRepository
func NewGormBundleRepository(db *gorm.DB) *GormBundleRepository {
	return &GormBundleRepository{db: db}
}

// Create creates a new bundle with its items
func (r *GormBundleRepository) Create(ctx context.Context, bundle *store.ProductBundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

// Update updates a bundle and replaces its items
func (r *GormBundleRepository) Update(ctx context.Context, bundle *store.ProductBundle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&store.BundleItem{}, "bundle_id = ?", bundle.ID).Error; err != nil {
			return err
		}
		return tx.Save(bundle).Error
	})
}

// Delete deletes a bundle and its items
func (r *GormBundleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&store.BundleItem{}, "bundle_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&store.ProductBundle{}, "id = ?", id).Error
	})
}

// FindByID finds a bundle with its items
func (r *GormBundleRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.ProductBundle, error) {
	var bundle store.ProductBundle
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&bundle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bundle, nil
}

// FindBySlug finds a bundle by its unique slug
func (r *GormBundleRepository) FindBySlug(ctx context.Context, slug string) (*store.ProductBundle, error) {
	var bundle store.ProductBundle
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&bundle, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bundle, nil
}

// FindByStore returns a store's bundles in display order
func (r *GormBundleRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*store.ProductBundle, int64, error) {
	query := r.db.WithContext(ctx).Model(&store.ProductBundle{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var bundles []*store.ProductBundle
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("sort_order ASC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bundles).Error; err != nil {
		return nil, 0, err
	}
	return bundles, total, nil
}

// FindActiveByStore returns a store's active bundles in display order
func (r *GormBundleRepository) FindActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*store.ProductBundle, error) {
	var bundles []*store.ProductBundle
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("store_id = ? AND active = true", storeID).
		Order("sort_order ASC, created_at DESC").
		Find(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

// FindByListing returns bundles that include the listing
func (r *GormBundleRepository) FindByListing(ctx context.Context, listingID uuid.UUID) ([]*store.ProductBundle, error) {
	var bundles []*store.ProductBundle
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Joins("JOIN bundle_items ON bundle_items.bundle_id = product_bundles.id").
		Where("bundle_items.listing_id = ?", listingID).
		Find(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

// ExistsBySlug checks if a bundle with the slug exists
func (r *GormBundleRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&store.ProductBundle{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
