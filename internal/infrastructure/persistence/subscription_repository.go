package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Update updates an existing subscription
func (r *GormSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// FindByID finds a subscription by ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByStore returns a store's subscriptions, newest first
func (r *GormSubscriptionRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// FindCurrentByStore finds the store's newest trialing or active subscription
func (r *GormSubscriptionRepository) FindCurrentByStore(ctx context.Context, storeID uuid.UUID) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status IN ?", storeID, []subscription.Status{
			subscription.StatusTrialing,
			subscription.StatusActive,
		}).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByOwner returns subscriptions across all of a user's stores
func (r *GormSubscriptionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	err := r.db.WithContext(ctx).
		Joins("JOIN stores ON stores.id = subscriptions.store_id").
		Where("stores.owner_id = ?", ownerID).
		Order("subscriptions.created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// OwnerEverTrialed checks whether any subscription across the owner's
// stores ever carried a trial window
func (r *GormSubscriptionRepository) OwnerEverTrialed(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&subscription.Subscription{}).
		Joins("JOIN stores ON stores.id = subscriptions.store_id").
		Where("stores.owner_id = ? AND subscriptions.trial_ends_at IS NOT NULL", ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindExpiredTrials finds trialing subscriptions whose window ended before the cutoff
func (r *GormSubscriptionRepository) FindExpiredTrials(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	query := r.db.WithContext(ctx).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at <= ?",
			subscription.StatusTrialing, cutoff).
		Order("trial_ends_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindExpiredPeriods finds active subscriptions whose paid period ended before the cutoff
func (r *GormSubscriptionRepository) FindExpiredPeriods(ctx context.Context, cutoff time.Time, limit int) ([]*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	query := r.db.WithContext(ctx).
		Where("status = ? AND current_period_end IS NOT NULL AND current_period_end <= ?",
			subscription.StatusActive, cutoff).
		Order("current_period_end ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// HasActiveByStore checks whether the store has a live entitlement
func (r *GormSubscriptionRepository) HasActiveByStore(ctx context.Context, storeID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&subscription.Subscription{}).
		Where("store_id = ?", storeID).
		Where("(status = ? AND current_period_end > ?) OR (status = ? AND trial_ends_at > ?)",
			subscription.StatusActive, now, subscription.StatusTrialing, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormUserTrialRepository implements UserTrialRepository using GORM
type GormUserTrialRepository struct {
	db *gorm.DB
}

// NewGormUserTrialRepository creates a new GormUserTrialRepository
func NewGormUserTrialRepository(db *gorm.DB) *GormUserTrialRepository {
	return &GormUserTrialRepository{db: db}
}

// Create records a trial start
func (r *GormUserTrialRepository) Create(ctx context.Context, trial *subscription.UserTrial) error {
	return r.db.WithContext(ctx).Create(trial).Error
}

// Update updates a trial record
func (r *GormUserTrialRepository) Update(ctx context.Context, trial *subscription.UserTrial) error {
	return r.db.WithContext(ctx).Save(trial).Error
}

// FindByUser returns a user's trials, newest first
func (r *GormUserTrialRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*subscription.UserTrial, error) {
	var trials []*subscription.UserTrial
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&trials).Error
	if err != nil {
		return nil, err
	}
	return trials, nil
}

// FindActiveBySubscription finds the active trial record behind a subscription
func (r *GormUserTrialRepository) FindActiveBySubscription(ctx context.Context, subscriptionID uuid.UUID) (*subscription.UserTrial, error) {
	var trial subscription.UserTrial
	err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND status = ?", subscriptionID, subscription.TrialStatusActive).
		First(&trial).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &trial, nil
}

// CountByUser counts trials the user has ever started
func (r *GormUserTrialRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&subscription.UserTrial{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
