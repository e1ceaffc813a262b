package store

import (
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreStatus represents the status of a store
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
)

// Store represents a seller's storefront. A seller's first store is
// free; additional stores require an active subscription, enforced by
// the application service on creation.
type Store struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name        string      `gorm:"type:varchar(255);not null"`
	Slug        string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string      `gorm:"type:text"`
	LogoKey     string      `gorm:"type:varchar(500)"`
	CoverKey    string      `gorm:"type:varchar(500)"`
	Location    string      `gorm:"type:varchar(255)"`
	Policies    string      `gorm:"type:text"` // Return policy and other store terms
	Premium     bool        `gorm:"not null;default:false"`
	Status      StoreStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new active store. The slug must already be unique.
func NewStore(ownerID uuid.UUID, name, slug, description string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	if err := validateStoreSlug(slug); err != nil {
		return nil, err
	}

	store := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Description:       description,
		Status:            StoreStatusActive,
	}

	store.AddDomainEvent(NewStoreCreatedEvent(store))

	return store, nil
}

// Update updates the store's profile
func (s *Store) Update(name, description, location, policies string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}
	if len(location) > 255 {
		return shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 255 characters")
	}

	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.Location = location
	s.Policies = policies
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreUpdatedEvent(s))

	return nil
}

// SetLogo sets the storage key for the store logo
func (s *Store) SetLogo(storageKey string) error {
	if len(storageKey) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	s.LogoKey = storageKey
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetCover sets the storage key for the store cover image
func (s *Store) SetCover(storageKey string) error {
	if len(storageKey) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	s.CoverKey = storageKey
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// GrantPremium marks the store premium. Called when a subscription
// becomes active or a trial starts.
func (s *Store) GrantPremium() {
	if s.Premium {
		return
	}
	s.Premium = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStorePremiumChangedEvent(s, true))
}

// RevokePremium clears the premium flag. Called when the store's last
// active subscription lapses; featured listings are cleared alongside.
func (s *Store) RevokePremium() {
	if !s.Premium {
		return
	}
	s.Premium = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStorePremiumChangedEvent(s, false))
}

// Activate reopens the store
func (s *Store) Activate() error {
	if s.Status == StoreStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Store is already active")
	}

	s.Status = StoreStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, StoreStatusInactive, StoreStatusActive))

	return nil
}

// Deactivate closes the store without deleting it
func (s *Store) Deactivate() error {
	if s.Status == StoreStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Store is already inactive")
	}

	s.Status = StoreStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, StoreStatusActive, StoreStatusInactive))

	return nil
}

// IsActive returns true if the store is open
func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}

// IsOwnedBy returns true if the user owns this store
func (s *Store) IsOwnedBy(userID uuid.UUID) bool {
	return s.OwnerID == userID
}

// validation functions

func validateStoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 255 characters")
	}
	return nil
}

func validateStoreSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 255 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 255 characters")
	}
	return nil
}
