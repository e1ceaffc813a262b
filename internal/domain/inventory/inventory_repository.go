package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AlertRuleRepository defines the interface for alert rule persistence
type AlertRuleRepository interface {
	// Create creates a new alert rule
	Create(ctx context.Context, rule *AlertRule) error

	// Update updates an existing alert rule
	Update(ctx context.Context, rule *AlertRule) error

	// Delete removes an alert rule
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an alert rule by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AlertRule, error)

	// FindByStore finds all rules configured for a store
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*AlertRule, error)

	// FindActiveByListing finds active rules watching a listing
	FindActiveByListing(ctx context.Context, listingID uuid.UUID) ([]*AlertRule, error)
}

// AlertRepository defines the interface for raised alert persistence
type AlertRepository interface {
	// Create creates a new alert
	Create(ctx context.Context, alert *Alert) error

	// Update updates an existing alert
	Update(ctx context.Context, alert *Alert) error

	// FindByID finds an alert by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindByStore finds alerts for a store, unacknowledged first
	FindByStore(ctx context.Context, storeID uuid.UUID, includeAcknowledged bool) ([]*Alert, error)

	// CountUnacknowledged counts open alerts for a store
	CountUnacknowledged(ctx context.Context, storeID uuid.UUID) (int64, error)

	// ExistsOpenForRule checks whether the rule already has an open alert,
	// preventing duplicate alerts while stock stays low
	ExistsOpenForRule(ctx context.Context, ruleID uuid.UUID) (bool, error)
}

// StockMovementRepository defines the interface for movement persistence
type StockMovementRepository interface {
	// Create appends a movement row
	Create(ctx context.Context, movement *StockMovement) error

	// FindByStore finds movements for a store, newest first
	FindByStore(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]*StockMovement, int64, error)

	// FindByListing finds movements for a listing, newest first
	FindByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*StockMovement, error)
}

// StockReservationRepository defines the interface for reservation persistence
type StockReservationRepository interface {
	// Create creates a new reservation
	Create(ctx context.Context, reservation *StockReservation) error

	// Update updates an existing reservation
	Update(ctx context.Context, reservation *StockReservation) error

	// FindByOrder finds all reservations held for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*StockReservation, error)

	// ActiveQuantityByListing sums active reserved units for a listing
	ActiveQuantityByListing(ctx context.Context, listingID uuid.UUID) (int, error)

	// FindExpired finds active reservations past their expiry
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*StockReservation, error)
}
