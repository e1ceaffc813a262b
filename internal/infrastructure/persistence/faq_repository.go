package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFAQRepository implements FAQRepository using GORM
type GormFAQRepository struct {
	db *gorm.DB
}

// NewGormFAQRepository creates a new GormFAQRepository
func NewGormFAQRepository(db *gorm.DB) *GormFAQRepository {
	return &GormFAQRepository{db: db}
}

// Create saves a FAQ entry
func (r *GormFAQRepository) Create(ctx context.Context, faq *catalog.FAQ) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

// Update updates a FAQ entry
func (r *GormFAQRepository) Update(ctx context.Context, faq *catalog.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

// Delete deletes a FAQ entry
func (r *GormFAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.FAQ{}, "id = ?", id).Error
}

// FindByID finds a FAQ entry by ID
func (r *GormFAQRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FAQ, error) {
	var faq catalog.FAQ
	if err := r.db.WithContext(ctx).First(&faq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &faq, nil
}

// FindActive returns active FAQs in display order
func (r *GormFAQRepository) FindActive(ctx context.Context) ([]*catalog.FAQ, error) {
	var faqs []*catalog.FAQ
	if err := r.db.WithContext(ctx).
		Where("active = true").
		Order("sort_order ASC, created_at ASC").
		Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

// FindAll returns all FAQs in display order
func (r *GormFAQRepository) FindAll(ctx context.Context) ([]*catalog.FAQ, error) {
	var faqs []*catalog.FAQ
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at ASC").
		Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}
