package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Create creates a new listing
func (r *GormListingRepository) Create(ctx context.Context, listing *catalog.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// Update updates an existing listing
func (r *GormListingRepository) Update(ctx context.Context, listing *catalog.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete deletes a listing by ID
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.Listing{}, "id = ?", id).Error
}

// FindByID finds a listing by ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	var listing catalog.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindBySlug finds a listing by its unique slug
func (r *GormListingRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Listing, error) {
	var listing catalog.Listing
	if err := r.db.WithContext(ctx).First(&listing, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindAll finds listings matching the filter
func (r *GormListingRepository) FindAll(ctx context.Context, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	return r.findFiltered(ctx, r.db.WithContext(ctx).Model(&catalog.Listing{}), filter)
}

// FindFeatured finds active featured listings
func (r *GormListingRepository) FindFeatured(ctx context.Context, limit int) ([]*catalog.Listing, error) {
	var listings []*catalog.Listing
	if err := r.db.WithContext(ctx).
		Where("status = ? AND featured = true", catalog.ListingStatusActive).
		Order("updated_at DESC").
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindTrending finds active listings ordered by view count
func (r *GormListingRepository) FindTrending(ctx context.Context, limit int) ([]*catalog.Listing, error) {
	var listings []*catalog.Listing
	if err := r.db.WithContext(ctx).
		Where("status = ?", catalog.ListingStatusActive).
		Order("views DESC, created_at DESC").
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByStore finds listings belonging to a store
func (r *GormListingRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Listing{}).Where("store_id = ?", storeID)
	return r.findFiltered(ctx, query, filter)
}

// ExistsBySlug checks if a listing with the slug exists
func (r *GormListingRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStore counts listings belonging to a store
func (r *GormListingRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// IncrementViews atomically increments the view counter
func (r *GormListingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// UnfeatureByStore clears the featured flag on all of a store's listings
func (r *GormListingRepository) UnfeatureByStore(ctx context.Context, storeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("store_id = ? AND featured = true", storeID).
		UpdateColumn("featured", false).Error
}

func (r *GormListingRepository) findFiltered(_ context.Context, query *gorm.DB, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Location != nil {
		query = query.Where("location = ?", *filter.Location)
	}
	if filter.Condition != nil {
		query = query.Where("condition = ?", *filter.Condition)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, ListingSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var listings []*catalog.Listing
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}
