package subscription

import (
	"time"

	"github.com/baysoko/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartTrialRequest starts a store's free trial
type StartTrialRequest struct {
	StoreID uuid.UUID `json:"store_id" binding:"required"`
	Plan    string    `json:"plan" binding:"required,oneof=basic premium enterprise"`
}

// SubscribeRequest asks to buy a subscription period via M-Pesa
type SubscribeRequest struct {
	StoreID uuid.UUID `json:"store_id" binding:"required"`
	Plan    string    `json:"plan" binding:"required,oneof=basic premium enterprise"`
	Phone   string    `json:"phone" binding:"required"`
}

// ChangePlanRequest switches a subscription's tier
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=basic premium enterprise"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID               uuid.UUID       `json:"id"`
	StoreID          uuid.UUID       `json:"store_id"`
	Plan             string          `json:"plan"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	StartedAt        time.Time       `json:"started_at"`
	TrialEndsAt      *time.Time      `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time      `json:"current_period_end,omitempty"`
	CanceledAt       *time.Time      `json:"canceled_at,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
}

// SubscribeResponse carries the STK push correlation back to the buyer
type SubscribeResponse struct {
	PaymentID         uuid.UUID       `json:"payment_id"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	Amount            decimal.Decimal `json:"amount"`
	CustomerMessage   string          `json:"customer_message,omitempty"`
}

// PlanResponse describes a tier for the pricing page
type PlanResponse struct {
	Plan        string          `json:"plan"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	MaxProducts *int            `json:"max_products,omitempty"`
	MaxStores   *int            `json:"max_stores,omitempty"`
	Features    []string        `json:"features"`
}

// ToSubscriptionResponse converts a subscription to its response DTO
func ToSubscriptionResponse(sub *subscription.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               sub.ID,
		StoreID:          sub.StoreID,
		Plan:             string(sub.Plan),
		Status:           string(sub.Status),
		Amount:           sub.Amount,
		Currency:         sub.Currency,
		StartedAt:        sub.StartedAt,
		TrialEndsAt:      sub.TrialEndsAt,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		CanceledAt:       sub.CanceledAt,
		ExpiresAt:        sub.ExpiresAt(),
	}
}

// ListPlans returns the tier catalog in ascending price order
func ListPlans() []PlanResponse {
	plans := subscription.AllPlans()
	responses := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		details, ok := plan.Details()
		if !ok {
			continue
		}
		responses = append(responses, PlanResponse{
			Plan:        string(plan),
			Name:        details.Name,
			Price:       details.Price,
			MaxProducts: details.MaxProducts,
			MaxStores:   details.MaxStores,
			Features:    details.Features,
		})
	}
	return responses
}
