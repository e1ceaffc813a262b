package subscription

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrialLimitPerUser is how many free trials a user ever gets
const TrialLimitPerUser = 1

// TrialStatus represents the outcome of a trial
type TrialStatus string

const (
	TrialStatusActive    TrialStatus = "active"
	TrialStatusEnded     TrialStatus = "ended"
	TrialStatusCanceled  TrialStatus = "canceled"
	TrialStatusConverted TrialStatus = "converted"
)

// UserTrial is the per-user trial ledger. It outlives the subscription
// it records, so trial limits hold even when stores or subscriptions
// are deleted.
type UserTrial struct {
	shared.BaseEntity
	UserID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_trial_user_number"`
	StoreID        uuid.UUID   `gorm:"type:uuid;not null"`
	SubscriptionID uuid.UUID   `gorm:"type:uuid;not null;index"`
	TrialNumber    int         `gorm:"not null;default:1;uniqueIndex:idx_trial_user_number"`
	StartedAt      time.Time   `gorm:"not null"`
	EndedAt        *time.Time  ``
	Status         TrialStatus `gorm:"type:varchar(20);not null;default:'active'"`
	DaysUsed       int         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (UserTrial) TableName() string {
	return "user_trials"
}

// NewUserTrial records the start of a user's nth trial
func NewUserTrial(userID, storeID, subscriptionID uuid.UUID, trialNumber int, endsAt *time.Time) (*UserTrial, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION_ID", "Subscription ID cannot be empty")
	}
	if trialNumber < 1 {
		return nil, shared.NewDomainError("INVALID_TRIAL_NUMBER", "Trial number must be at least 1")
	}
	if trialNumber > TrialLimitPerUser {
		return nil, shared.ErrTrialAlreadyUsed
	}

	return &UserTrial{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		StoreID:        storeID,
		SubscriptionID: subscriptionID,
		TrialNumber:    trialNumber,
		StartedAt:      time.Now(),
		EndedAt:        endsAt,
		Status:         TrialStatusActive,
	}, nil
}

// End closes the trial with the given outcome and records days used
func (t *UserTrial) End(status TrialStatus) error {
	if t.Status != TrialStatusActive {
		return shared.NewDomainError("TRIAL_NOT_ACTIVE", "Trial has already ended")
	}
	if status == TrialStatusActive {
		return shared.NewDomainError("INVALID_STATUS", "Cannot end a trial into active status")
	}

	now := time.Now()
	t.Status = status
	used := int(now.Sub(t.StartedAt).Hours() / 24)
	if t.EndedAt != nil && now.After(*t.EndedAt) {
		used = int(t.EndedAt.Sub(t.StartedAt).Hours() / 24)
	}
	if used < 0 {
		used = 0
	}
	t.DaysUsed = used
	t.EndedAt = &now
	t.UpdatedAt = now

	return nil
}

// IsActive reports whether the trial is still running
func (t *UserTrial) IsActive(now time.Time) bool {
	if t.Status != TrialStatusActive {
		return false
	}
	return t.EndedAt == nil || now.Before(*t.EndedAt)
}

// DaysRemaining returns whole days left in the trial window
func (t *UserTrial) DaysRemaining(now time.Time) int {
	if t.EndedAt == nil {
		return 0
	}
	remaining := int(t.EndedAt.Sub(now).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}
