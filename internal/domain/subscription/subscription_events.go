package subscription

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypeSubscription is the aggregate type for subscriptions
	AggregateTypeSubscription = "Subscription"

	// Subscription event types
	EventTypeTrialStarted          = "subscription.trial_started"
	EventTypeTrialConverted        = "subscription.trial_converted"
	EventTypeSubscriptionActivated = "subscription.activated"
	EventTypeSubscriptionRenewed   = "subscription.renewed"
	EventTypePlanChanged           = "subscription.plan_changed"
	EventTypeSubscriptionCanceled  = "subscription.canceled"
	EventTypeSubscriptionPastDue   = "subscription.past_due"
	EventTypeSubscriptionLapsed    = "subscription.lapsed"
)

// TrialStartedEvent is published when a store starts a free trial
type TrialStartedEvent struct {
	shared.BaseDomainEvent
	StoreID     uuid.UUID  `json:"store_id"`
	Plan        Plan       `json:"plan"`
	TrialEndsAt *time.Time `json:"trial_ends_at"`
}

// NewTrialStartedEvent creates a new TrialStartedEvent
func NewTrialStartedEvent(sub *Subscription) *TrialStartedEvent {
	return &TrialStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTrialStarted, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		Plan:            sub.Plan,
		TrialEndsAt:     sub.TrialEndsAt,
	}
}

// TrialConvertedEvent is published when a trial converts to paid
type TrialConvertedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Plan    Plan      `json:"plan"`
}

// NewTrialConvertedEvent creates a new TrialConvertedEvent
func NewTrialConvertedEvent(sub *Subscription) *TrialConvertedEvent {
	return &TrialConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTrialConverted, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		Plan:            sub.Plan,
	}
}

// SubscriptionActivatedEvent is published when a paid subscription starts
type SubscriptionActivatedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Plan    Plan      `json:"plan"`
}

// NewSubscriptionActivatedEvent creates a new SubscriptionActivatedEvent
func NewSubscriptionActivatedEvent(sub *Subscription) *SubscriptionActivatedEvent {
	return &SubscriptionActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionActivated, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		Plan:            sub.Plan,
	}
}

// SubscriptionRenewedEvent is published when a renewal payment lands
type SubscriptionRenewedEvent struct {
	shared.BaseDomainEvent
	StoreID   uuid.UUID  `json:"store_id"`
	Plan      Plan       `json:"plan"`
	PeriodEnd *time.Time `json:"period_end"`
}

// NewSubscriptionRenewedEvent creates a new SubscriptionRenewedEvent
func NewSubscriptionRenewedEvent(sub *Subscription) *SubscriptionRenewedEvent {
	return &SubscriptionRenewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionRenewed, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		Plan:            sub.Plan,
		PeriodEnd:       sub.CurrentPeriodEnd,
	}
}

// PlanChangedEvent is published when a subscription switches tiers
type PlanChangedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	OldPlan Plan      `json:"old_plan"`
	NewPlan Plan      `json:"new_plan"`
}

// NewPlanChangedEvent creates a new PlanChangedEvent
func NewPlanChangedEvent(sub *Subscription, oldPlan, newPlan Plan) *PlanChangedEvent {
	return &PlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanChanged, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}

// SubscriptionCanceledEvent is published when a subscription is canceled
type SubscriptionCanceledEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Plan    Plan      `json:"plan"`
}

// NewSubscriptionCanceledEvent creates a new SubscriptionCanceledEvent
func NewSubscriptionCanceledEvent(sub *Subscription) *SubscriptionCanceledEvent {
	return &SubscriptionCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionCanceled, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
		Plan:            sub.Plan,
	}
}

// SubscriptionPastDueEvent is published when a renewal payment fails
type SubscriptionPastDueEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
}

// NewSubscriptionPastDueEvent creates a new SubscriptionPastDueEvent
func NewSubscriptionPastDueEvent(sub *Subscription) *SubscriptionPastDueEvent {
	return &SubscriptionPastDueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionPastDue, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
	}
}

// SubscriptionLapsedEvent is published when entitlements are withdrawn.
// Store premium status and featured listings are cleared from this
// event.
type SubscriptionLapsedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
}

// NewSubscriptionLapsedEvent creates a new SubscriptionLapsedEvent
func NewSubscriptionLapsedEvent(sub *Subscription) *SubscriptionLapsedEvent {
	return &SubscriptionLapsedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionLapsed, AggregateTypeSubscription, sub.ID),
		StoreID:         sub.StoreID,
	}
}
