package catalog

import (
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingStatus represents the status of a listing
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusSold     ListingStatus = "sold"
)

// ListingCondition represents the condition of the item for sale
type ListingCondition string

const (
	ConditionNew         ListingCondition = "new"
	ConditionUsed        ListingCondition = "used"
	ConditionRefurbished ListingCondition = "refurbished"
)

// IsValid checks if the condition is valid
func (c ListingCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return true
	default:
		return false
	}
}

// DeliveryOption represents how the item reaches the buyer
type DeliveryOption string

const (
	DeliveryOptionPickup   DeliveryOption = "pickup"
	DeliveryOptionDelivery DeliveryOption = "delivery"
	DeliveryOptionShipping DeliveryOption = "shipping"
)

// IsValid checks if the delivery option is valid
func (d DeliveryOption) IsValid() bool {
	switch d {
	case DeliveryOptionPickup, DeliveryOptionDelivery, DeliveryOptionShipping:
		return true
	default:
		return false
	}
}

// ListingLocation represents a pickup area within Homa Bay county
type ListingLocation string

const (
	LocationHomaBayTown ListingLocation = "HB_Town"
	LocationKenduBay    ListingLocation = "Kendu_Bay"
	LocationRodiKopany  ListingLocation = "Rodi_Kopany"
	LocationMbita       ListingLocation = "Mbita"
	LocationOyugis      ListingLocation = "Oyugis"
	LocationRangwe      ListingLocation = "Rangwe"
	LocationNdhiwa      ListingLocation = "Ndhiwa"
	LocationSuba        ListingLocation = "Suba"
)

// listingLocationNames maps location codes to display names
var listingLocationNames = map[ListingLocation]string{
	LocationHomaBayTown: "Homa Bay Town",
	LocationKenduBay:    "Kendu Bay",
	LocationRodiKopany:  "Rodi Kopany",
	LocationMbita:       "Mbita",
	LocationOyugis:      "Oyugis",
	LocationRangwe:      "Rangwe",
	LocationNdhiwa:      "Ndhiwa",
	LocationSuba:        "Suba",
}

// IsValid checks if the location is a known area
func (l ListingLocation) IsValid() bool {
	_, ok := listingLocationNames[l]
	return ok
}

// DisplayName returns the human-readable area name
func (l ListingLocation) DisplayName() string {
	if name, ok := listingLocationNames[l]; ok {
		return name
	}
	return string(l)
}

// Listing represents an item offered for sale by a store
// It is the aggregate root for listing-related operations
type Listing struct {
	shared.BaseAggregateRoot
	StoreID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title         string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text;not null"`
	Slug          string           `gorm:"type:varchar(255);not null;uniqueIndex"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null"` // Captured on first save, never changes
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`          // For flash sales
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	Location      ListingLocation  `gorm:"type:varchar(50);not null"`
	Condition     ListingCondition `gorm:"type:varchar(20);not null;default:'used'"`
	Delivery      DeliveryOption   `gorm:"type:varchar(20);not null;default:'pickup'"`
	Stock         int              `gorm:"not null;default:1"`
	Status        ListingStatus    `gorm:"type:varchar(20);not null;default:'active'"`
	Featured      bool             `gorm:"not null;default:false"`
	Views         int              `gorm:"not null;default:0"` // For trending
	Brand         string           `gorm:"type:varchar(100)"`
	Model         string           `gorm:"type:varchar(100)"`
	Dimensions    string           `gorm:"type:varchar(100)"` // e.g., "10x5x3 cm"
	Weight        string           `gorm:"type:varchar(50)"`  // e.g., "2.5 kg"
	Color         string           `gorm:"type:varchar(50)"`
	Material      string           `gorm:"type:varchar(100)"`
	MetaDesc      string           `gorm:"type:text;column:meta_description"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a new listing. The slug must already be unique;
// callers generate it through the slug helper against the repository.
func NewListing(
	storeID, sellerID uuid.UUID,
	title, description, slug string,
	price decimal.Decimal,
	location ListingLocation,
	condition ListingCondition,
	delivery DeliveryOption,
	stock int,
) (*Listing, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER_ID", "Seller ID cannot be empty")
	}
	if err := validateListingTitle(title); err != nil {
		return nil, err
	}
	if err := validateListingDescription(description); err != nil {
		return nil, err
	}
	if err := validateListingSlug(slug); err != nil {
		return nil, err
	}
	if err := validateListingPrice(price); err != nil {
		return nil, err
	}
	if !location.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Unknown listing location")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", "Unknown listing condition")
	}
	if !delivery.IsValid() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_OPTION", "Unknown delivery option")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	listing := &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		SellerID:          sellerID,
		Title:             strings.TrimSpace(title),
		Description:       description,
		Slug:              slug,
		Price:             price,
		OriginalPrice:     price, // captured once
		Location:          location,
		Condition:         condition,
		Delivery:          delivery,
		Stock:             stock,
		Status:            ListingStatusActive,
	}
	if stock == 0 {
		listing.Status = ListingStatusSold
	}

	listing.AddDomainEvent(NewListingCreatedEvent(listing))

	return listing, nil
}

// Update updates the listing's basic information
func (l *Listing) Update(title, description string) error {
	if err := validateListingTitle(title); err != nil {
		return err
	}
	if err := validateListingDescription(description); err != nil {
		return err
	}

	l.Title = strings.TrimSpace(title)
	l.Description = description
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingUpdatedEvent(l))

	return nil
}

// ChangePrice changes the asking price. The previous price is reported
// through the event so a price history row can be appended.
func (l *Listing) ChangePrice(newPrice decimal.Decimal) error {
	if err := validateListingPrice(newPrice); err != nil {
		return err
	}
	if l.Price.Equal(newPrice) {
		return nil
	}

	oldPrice := l.Price
	l.Price = newPrice
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingPriceChangedEvent(l, oldPrice, newPrice))

	return nil
}

// ApplyDiscount sets a flash-sale price below the asking price
func (l *Listing) ApplyDiscount(discountPrice decimal.Decimal) error {
	if err := validateListingPrice(discountPrice); err != nil {
		return err
	}
	if discountPrice.GreaterThanOrEqual(l.Price) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount price must be below the asking price")
	}

	l.DiscountPrice = &discountPrice
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// ClearDiscount removes any flash-sale price
func (l *Listing) ClearDiscount() {
	l.DiscountPrice = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// EffectivePrice returns the price a buyer pays right now
func (l *Listing) EffectivePrice() decimal.Decimal {
	if l.DiscountPrice != nil && l.DiscountPrice.LessThan(l.Price) {
		return *l.DiscountPrice
	}
	return l.Price
}

// PriceTrend reports how the current price compares to the original
// price: "down", "up", or "stable".
func (l *Listing) PriceTrend() string {
	switch {
	case l.OriginalPrice.GreaterThan(l.Price):
		return "down"
	case l.OriginalPrice.LessThan(l.Price):
		return "up"
	default:
		return "stable"
	}
}

// SetCategory assigns the listing to a category
func (l *Listing) SetCategory(categoryID *uuid.UUID) {
	l.CategoryID = categoryID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetSpecifications sets the optional product specification fields
func (l *Listing) SetSpecifications(brand, model, dimensions, weight, color, material string) error {
	for _, check := range []struct {
		value string
		limit int
	}{
		{brand, 100}, {model, 100}, {dimensions, 100},
		{weight, 50}, {color, 50}, {material, 100},
	} {
		if len(check.value) > check.limit {
			return shared.NewDomainError("INVALID_SPECIFICATION", "Specification field exceeds maximum length")
		}
	}

	l.Brand = brand
	l.Model = model
	l.Dimensions = dimensions
	l.Weight = weight
	l.Color = color
	l.Material = material
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetMetaDescription sets the SEO meta description
func (l *Listing) SetMetaDescription(meta string) {
	l.MetaDesc = meta
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetDeliveryOption changes how the item reaches the buyer
func (l *Listing) SetDeliveryOption(delivery DeliveryOption) error {
	if !delivery.IsValid() {
		return shared.NewDomainError("INVALID_DELIVERY_OPTION", "Unknown delivery option")
	}

	l.Delivery = delivery
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Feature marks the listing as featured. The caller is responsible for
// verifying the store's subscription entitles it; storeEligible carries
// that verdict so an ineligible store can never force the flag on.
func (l *Listing) Feature(storeEligible bool) error {
	if !storeEligible {
		l.Featured = false
		return shared.ErrPaymentRequired
	}
	if l.Featured {
		return nil
	}

	l.Featured = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingFeaturedEvent(l))

	return nil
}

// Unfeature clears the featured flag
func (l *Listing) Unfeature() {
	if !l.Featured {
		return
	}
	l.Featured = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// RecordView increments the view counter for trending.
// Views do not bump the aggregate version; they are not a business change.
func (l *Listing) RecordView() {
	l.Views++
}

// DecrementStock reduces stock after a sale. Stock reaching zero marks
// the listing sold.
func (l *Listing) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > l.Stock {
		return shared.ErrInsufficientStock
	}

	oldStatus := l.Status
	l.Stock -= quantity
	if l.Stock == 0 {
		l.Status = ListingStatusSold
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if l.Status == ListingStatusSold && oldStatus != ListingStatusSold {
		l.AddDomainEvent(NewListingSoldOutEvent(l))
	}

	return nil
}

// IncrementStock restocks the listing, reviving a sold listing
func (l *Listing) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	l.Stock += quantity
	if l.Status == ListingStatusSold && l.Stock > 0 {
		l.Status = ListingStatusActive
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// AdjustStock sets stock to an absolute value (seller inventory correction)
func (l *Listing) AdjustStock(newStock int) error {
	if newStock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	oldStock := l.Stock
	oldStatus := l.Status
	l.Stock = newStock
	switch {
	case newStock == 0 && l.Status == ListingStatusActive:
		l.Status = ListingStatusSold
	case newStock > 0 && l.Status == ListingStatusSold:
		l.Status = ListingStatusActive
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingStockAdjustedEvent(l, oldStock, newStock))

	if l.Status == ListingStatusSold && oldStatus != ListingStatusSold {
		l.AddDomainEvent(NewListingSoldOutEvent(l))
	}

	return nil
}

// Activate re-lists an inactive listing
func (l *Listing) Activate() error {
	if l.Status == ListingStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Listing is already active")
	}
	if l.Stock == 0 {
		return shared.ErrInsufficientStock
	}

	oldStatus := l.Status
	l.Status = ListingStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingStatusChangedEvent(l, oldStatus, ListingStatusActive))

	return nil
}

// Deactivate hides the listing from buyers without deleting it
func (l *Listing) Deactivate() error {
	if l.Status == ListingStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Listing is already inactive")
	}

	oldStatus := l.Status
	l.Status = ListingStatusInactive
	l.Featured = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingStatusChangedEvent(l, oldStatus, ListingStatusInactive))

	return nil
}

// IsActive returns true if buyers can see and buy the listing
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// IsSold returns true if the listing has no stock left
func (l *Listing) IsSold() bool {
	return l.Status == ListingStatusSold
}

// IsAvailable returns true if the listing can be added to a cart
func (l *Listing) IsAvailable(quantity int) bool {
	return l.Status == ListingStatusActive && l.Stock >= quantity
}

// Validation functions

func validateListingTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}

func validateListingDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	return nil
}

func validateListingSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 255 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 255 characters")
	}
	return nil
}

func validateListingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if price.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	return nil
}
