package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *Subscription) error

	// Update updates an existing subscription
	Update(ctx context.Context, sub *Subscription) error

	// FindByID finds a subscription by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByStore returns a store's subscriptions, newest first
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*Subscription, error)

	// FindCurrentByStore finds the store's newest trialing or active
	// subscription, shared.ErrNotFound when none
	FindCurrentByStore(ctx context.Context, storeID uuid.UUID) (*Subscription, error)

	// FindByOwner returns subscriptions across all of a user's stores
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Subscription, error)

	// OwnerEverTrialed checks whether any subscription across the
	// owner's stores ever carried a trial window
	OwnerEverTrialed(ctx context.Context, ownerID uuid.UUID) (bool, error)

	// FindExpiredTrials finds trialing subscriptions whose window ended
	// before the cutoff, for the expiry sweep
	FindExpiredTrials(ctx context.Context, cutoff time.Time, limit int) ([]*Subscription, error)

	// FindExpiredPeriods finds active subscriptions whose paid period
	// ended before the cutoff, for the dunning sweep
	FindExpiredPeriods(ctx context.Context, cutoff time.Time, limit int) ([]*Subscription, error)

	// HasActiveByStore checks whether the store has a live entitlement
	HasActiveByStore(ctx context.Context, storeID uuid.UUID, now time.Time) (bool, error)
}

// UserTrialRepository defines the interface for the trial ledger
type UserTrialRepository interface {
	// Create records a trial start
	Create(ctx context.Context, trial *UserTrial) error

	// Update updates a trial record
	Update(ctx context.Context, trial *UserTrial) error

	// FindByUser returns a user's trials, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*UserTrial, error)

	// FindActiveBySubscription finds the active trial record behind a
	// subscription, shared.ErrNotFound when none
	FindActiveBySubscription(ctx context.Context, subscriptionID uuid.UUID) (*UserTrial, error)

	// CountByUser counts trials the user has ever started
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
