package subscription

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// TrialDuration is how long a free trial runs
	TrialDuration = 7 * 24 * time.Hour

	// BillingPeriod is the length of one paid period
	BillingPeriod = 30 * 24 * time.Hour
)

// Status represents the lifecycle state of a subscription
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusUnpaid   Status = "unpaid"
)

// Subscription entitles a store to premium features for as long as it
// stays paid (or within its trial window).
type Subscription struct {
	shared.BaseAggregateRoot
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Plan             Plan            `gorm:"type:varchar(20);not null;default:'basic'"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'trialing'"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'KES'"`
	StartedAt        time.Time       `gorm:"not null"`
	TrialEndsAt      *time.Time      ``
	CurrentPeriodEnd *time.Time      ``
	CanceledAt       *time.Time      ``
	MpesaPhone       string          `gorm:"type:varchar(15)"` // MSISDN used for renewals
}

// TableName returns the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewTrialSubscription starts a subscription in its free trial window.
// Trial eligibility (one trial per user, ever) is enforced by the
// application service against the trial ledger before calling this.
func NewTrialSubscription(storeID uuid.UUID, plan Plan) (*Subscription, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}

	now := time.Now()
	trialEnd := now.Add(TrialDuration)

	sub := &Subscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Plan:              plan,
		Status:            StatusTrialing,
		Amount:            plan.MonthlyPrice(),
		Currency:          string(valueobject.DefaultCurrency),
		StartedAt:         now,
		TrialEndsAt:       &trialEnd,
	}

	sub.AddDomainEvent(NewTrialStartedEvent(sub))

	return sub, nil
}

// NewPaidSubscription starts a subscription directly in active status,
// with the first billing period already paid.
func NewPaidSubscription(storeID uuid.UUID, plan Plan, mpesaPhone string) (*Subscription, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}

	now := time.Now()
	periodEnd := now.Add(BillingPeriod)

	sub := &Subscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Plan:              plan,
		Status:            StatusActive,
		Amount:            plan.MonthlyPrice(),
		Currency:          string(valueobject.DefaultCurrency),
		StartedAt:         now,
		CurrentPeriodEnd:  &periodEnd,
		MpesaPhone:        mpesaPhone,
	}

	sub.AddDomainEvent(NewSubscriptionActivatedEvent(sub))

	return sub, nil
}

// Renew marks a billing payment received, extending the paid period by
// one month. A trialing subscription converts to paid.
func (s *Subscription) Renew(mpesaPhone string) error {
	if s.Status == StatusCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Cannot renew a canceled subscription")
	}

	wasTrialing := s.Status == StatusTrialing

	s.Status = StatusActive
	periodEnd := time.Now().Add(BillingPeriod)
	s.CurrentPeriodEnd = &periodEnd
	if mpesaPhone != "" {
		s.MpesaPhone = mpesaPhone
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if wasTrialing {
		s.AddDomainEvent(NewTrialConvertedEvent(s))
	}
	s.AddDomainEvent(NewSubscriptionRenewedEvent(s))

	return nil
}

// ChangePlan switches the tier. The new price applies from the next
// renewal.
func (s *Subscription) ChangePlan(plan Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	if s.Status == StatusCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Cannot change plan on a canceled subscription")
	}
	if s.Plan == plan {
		return nil
	}

	oldPlan := s.Plan
	s.Plan = plan
	s.Amount = plan.MonthlyPrice()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewPlanChangedEvent(s, oldPlan, plan))

	return nil
}

// Cancel ends the subscription
func (s *Subscription) Cancel() error {
	if s.Status == StatusCanceled {
		return shared.NewDomainError("ALREADY_CANCELED", "Subscription is already canceled")
	}

	now := time.Now()
	s.Status = StatusCanceled
	s.CanceledAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionCanceledEvent(s))

	return nil
}

// MarkPastDue flags a subscription whose renewal payment failed. The
// store keeps premium until the grace period lapses.
func (s *Subscription) MarkPastDue() error {
	if s.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATUS", "Only active subscriptions can become past due")
	}

	s.Status = StatusPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionPastDueEvent(s))

	return nil
}

// MarkUnpaid ends the grace period; premium entitlements lapse
func (s *Subscription) MarkUnpaid() error {
	if s.Status != StatusPastDue && s.Status != StatusTrialing {
		return shared.NewDomainError("INVALID_STATUS", "Only past due or expired-trial subscriptions can become unpaid")
	}

	s.Status = StatusUnpaid
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionLapsedEvent(s))

	return nil
}

// IsActive reports whether the subscription currently entitles the
// store to premium features. A trialing subscription is active until
// its trial window ends.
func (s *Subscription) IsActive(now time.Time) bool {
	switch s.Status {
	case StatusActive:
		return true
	case StatusTrialing:
		return s.TrialEndsAt == nil || now.Before(*s.TrialEndsAt)
	default:
		return false
	}
}

// IsTrialing reports whether the subscription is inside its trial window
func (s *Subscription) IsTrialing(now time.Time) bool {
	return s.Status == StatusTrialing && s.TrialEndsAt != nil && now.Before(*s.TrialEndsAt)
}

// TrialExpired reports whether a trialing subscription's window has
// lapsed without conversion.
func (s *Subscription) TrialExpired(now time.Time) bool {
	return s.Status == StatusTrialing && s.TrialEndsAt != nil && !now.Before(*s.TrialEndsAt)
}

// ExpiresAt returns when the current entitlement ends, nil when unknown
func (s *Subscription) ExpiresAt() *time.Time {
	if s.Status == StatusTrialing && s.TrialEndsAt != nil {
		return s.TrialEndsAt
	}
	if s.CurrentPeriodEnd != nil {
		return s.CurrentPeriodEnd
	}
	return s.TrialEndsAt
}

// PeriodExpired reports whether a paid period has run out
func (s *Subscription) PeriodExpired(now time.Time) bool {
	return s.Status == StatusActive && s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd)
}
