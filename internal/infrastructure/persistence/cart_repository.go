package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Save creates or updates a cart and replaces its items
func (r *GormCartRepository) Save(ctx context.Context, cart *order.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&order.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return err
		}
		return tx.Save(cart).Error
	})
}

// FindByUser finds a user's cart with items
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	var cart order.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// Delete deletes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&order.CartItem{}, "cart_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&order.Cart{}, "id = ?", id).Error
	})
}

// RemoveListingEverywhere strips a deleted listing out of all carts
func (r *GormCartRepository) RemoveListingEverywhere(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&order.CartItem{}).Error
}
