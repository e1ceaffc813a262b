package order

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Cart is a user's shopping cart. Each user has exactly one cart;
// quantities merge when the same listing is added again. Prices are
// not snapshotted here, the checkout reads current listing prices.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a listing in a cart
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_listing"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_listing"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem adds a listing to the cart, merging quantities on repeat adds
func (c *Cart) AddItem(listingID uuid.UUID, quantity int) error {
	if listingID == uuid.Nil {
		return shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for i := range c.Items {
		if c.Items[i].ListingID == listingID {
			c.Items[i].Quantity += quantity
			c.Items[i].UpdatedAt = time.Now()
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ListingID:  listingID,
		Quantity:   quantity,
	})
	c.touch()

	return nil
}

// UpdateQuantity sets the quantity for a listing; zero removes it
func (c *Cart) UpdateQuantity(listingID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		return c.RemoveItem(listingID)
	}

	for i := range c.Items {
		if c.Items[i].ListingID == listingID {
			c.Items[i].Quantity = quantity
			c.Items[i].UpdatedAt = time.Now()
			c.touch()
			return nil
		}
	}

	return shared.ErrNotFound
}

// RemoveItem removes a listing from the cart
func (c *Cart) RemoveItem(listingID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ListingID == listingID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear empties the cart, typically after a successful checkout
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.touch()
}

// Quantity returns the quantity of a listing in the cart, zero if absent
func (c *Cart) Quantity(listingID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ListingID == listingID {
			return c.Items[i].Quantity
		}
	}
	return 0
}

// TotalItems returns the number of distinct listings in the cart
func (c *Cart) TotalItems() int {
	return len(c.Items)
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// Save creates or updates a cart and replaces its items
	Save(ctx context.Context, cart *Cart) error

	// FindByUser finds a user's cart with items, shared.ErrNotFound when
	// the user has never carted anything
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Delete deletes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// RemoveListingEverywhere strips a deleted listing out of all carts
	RemoveListingEverywhere(ctx context.Context, listingID uuid.UUID) error
}
