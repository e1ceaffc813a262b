package store

import (
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductBundle is a kit of listings sold together at a combined price
// below the sum of its parts.
type ProductBundle struct {
	shared.BaseAggregateRoot
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_bundle_store_active"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Slug           string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description    string          `gorm:"type:text"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Sum of item prices
	BundlePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPct    int             `gorm:"not null;default:0"`
	SKU            string          `gorm:"type:varchar(100);uniqueIndex"`
	Stock          int             `gorm:"not null;default:0"`
	TrackInventory bool            `gorm:"not null;default:true"`
	ImageKey       string          `gorm:"type:varchar(500)"`
	SortOrder      int             `gorm:"not null;default:0"`
	Featured       bool            `gorm:"not null;default:false"`
	Active         bool            `gorm:"not null;default:true;index:idx_bundle_store_active"`
	StartAt        *time.Time      ``
	EndAt          *time.Time      ``
	Items          []BundleItem    `gorm:"foreignKey:BundleID"`
}

// TableName returns the table name for GORM
func (ProductBundle) TableName() string {
	return "product_bundles"
}

// BundleItem is a listing included in a bundle
type BundleItem struct {
	shared.BaseEntity
	BundleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_item"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bundle_item"`
	Quantity  int       `gorm:"not null;default:1"`
	Required  bool      `gorm:"not null;default:true"`
	Notes     string    `gorm:"type:varchar(200)"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BundleItem) TableName() string {
	return "bundle_items"
}

// NewProductBundle creates a new bundle. The slug must already be
// unique. Base price is recalculated as items are added.
func NewProductBundle(storeID uuid.UUID, name, slug, description string, bundlePrice decimal.Decimal) (*ProductBundle, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if err := validateBundleName(name); err != nil {
		return nil, err
	}
	if slug == "" || len(slug) > 200 {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be between 1 and 200 characters")
	}
	if bundlePrice.IsNegative() || bundlePrice.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Bundle price must be greater than zero")
	}

	bundle := &ProductBundle{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Description:       description,
		BasePrice:         decimal.Zero,
		BundlePrice:       bundlePrice,
		TrackInventory:    true,
		Active:            true,
	}

	bundle.AddDomainEvent(NewBundleCreatedEvent(bundle))

	return bundle, nil
}

// AddItem adds a listing to the bundle. itemPrice is the listing's
// current unit price, used to keep the base price current.
func (b *ProductBundle) AddItem(listingID uuid.UUID, quantity int, required bool, itemPrice decimal.Decimal) error {
	if listingID == uuid.Nil {
		return shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for _, item := range b.Items {
		if item.ListingID == listingID {
			return shared.NewDomainError("DUPLICATE_BUNDLE_ITEM", "Listing is already in the bundle")
		}
	}

	b.Items = append(b.Items, BundleItem{
		BaseEntity: shared.NewBaseEntity(),
		BundleID:   b.ID,
		ListingID:  listingID,
		Quantity:   quantity,
		Required:   required,
		SortOrder:  len(b.Items),
	})

	b.BasePrice = b.BasePrice.Add(itemPrice.Mul(decimal.NewFromInt(int64(quantity))))
	b.recalculateDiscount()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// RemoveItem removes a listing from the bundle. itemPrice is the
// listing's current unit price.
func (b *ProductBundle) RemoveItem(listingID uuid.UUID, itemPrice decimal.Decimal) error {
	for i, item := range b.Items {
		if item.ListingID == listingID {
			b.BasePrice = b.BasePrice.Sub(itemPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			if b.BasePrice.IsNegative() {
				b.BasePrice = decimal.Zero
			}
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			b.recalculateDiscount()
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetBundlePrice changes the combined price
func (b *ProductBundle) SetBundlePrice(price decimal.Decimal) error {
	if price.IsNegative() || price.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Bundle price must be greater than zero")
	}

	b.BundlePrice = price
	b.recalculateDiscount()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// recalculateDiscount derives the discount percentage from base and
// bundle prices.
func (b *ProductBundle) recalculateDiscount() {
	if b.BasePrice.IsZero() || b.BundlePrice.GreaterThanOrEqual(b.BasePrice) {
		b.DiscountPct = 0
		return
	}
	pct := b.BasePrice.Sub(b.BundlePrice).Div(b.BasePrice).Mul(decimal.NewFromInt(100))
	b.DiscountPct = int(pct.IntPart())
}

// Savings returns the amount saved over buying items separately
func (b *ProductBundle) Savings() decimal.Decimal {
	if b.BasePrice.LessThanOrEqual(b.BundlePrice) {
		return decimal.Zero
	}
	return b.BasePrice.Sub(b.BundlePrice)
}

// SetStock sets the bundle's own stock level
func (b *ProductBundle) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	b.Stock = stock
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetWindow restricts the bundle to a sale window
func (b *ProductBundle) SetWindow(startAt, endAt *time.Time) error {
	if startAt != nil && endAt != nil && !endAt.After(*startAt) {
		return shared.NewDomainError("INVALID_WINDOW", "End of the sale window must be after its start")
	}
	b.StartAt = startAt
	b.EndAt = endAt
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetFeatured toggles the featured flag
func (b *ProductBundle) SetFeatured(featured bool) {
	b.Featured = featured
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Activate enables the bundle
func (b *ProductBundle) Activate() {
	b.Active = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Deactivate disables the bundle
func (b *ProductBundle) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// IsAvailable checks whether the bundle can be purchased now. Item
// level stock is checked by the application service against the
// listings themselves.
func (b *ProductBundle) IsAvailable(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartAt != nil && b.StartAt.After(now) {
		return false
	}
	if b.EndAt != nil && b.EndAt.Before(now) {
		return false
	}
	if b.TrackInventory && b.Stock <= 0 {
		return false
	}
	return true
}

func validateBundleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Bundle name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Bundle name cannot exceed 200 characters")
	}
	return nil
}
