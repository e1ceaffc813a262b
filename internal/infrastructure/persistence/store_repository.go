package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Create creates a new store
func (r *GormStoreRepository) Create(ctx context.Context, st *store.Store) error {
	return r.db.WithContext(ctx).Create(st).Error
}

// Update updates an existing store
func (r *GormStoreRepository) Update(ctx context.Context, st *store.Store) error {
	return r.db.WithContext(ctx).Save(st).Error
}

// Delete deletes a store by ID
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&store.Store{}, "id = ?", id).Error
}

// FindByID finds a store by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var st store.Store
	if err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindBySlug finds a store by its unique slug
func (r *GormStoreRepository) FindBySlug(ctx context.Context, slug string) (*store.Store, error) {
	var st store.Store
	if err := r.db.WithContext(ctx).First(&st, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindByOwner finds all stores owned by a user
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*store.Store, error) {
	var stores []*store.Store
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindAll finds stores matching the filter
func (r *GormStoreRepository) FindAll(ctx context.Context, filter store.StoreFilter) ([]*store.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&store.Store{})

	if filter.Keyword != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Premium != nil {
		query = query.Where("premium = ?", *filter.Premium)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, StoreSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var stores []*store.Store
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// ExistsBySlug checks if a store with the slug exists
func (r *GormStoreRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&store.Store{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByOwner counts stores owned by a user
func (r *GormStoreRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&store.Store{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// OwnerHasPremiumStore checks whether any of the owner's stores is premium
func (r *GormStoreRepository) OwnerHasPremiumStore(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&store.Store{}).
		Where("owner_id = ? AND premium = true", ownerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
