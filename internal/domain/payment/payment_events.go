package payment

import (
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AggregateTypePayment is the aggregate type for payments
	AggregateTypePayment = "Payment"

	// Payment event types
	EventTypePaymentCreated   = "payment.created"
	EventTypePaymentInitiated = "payment.initiated"
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
	EventTypePaymentRefunded  = "payment.refunded"
)

// PaymentCreatedEvent is published when a payment record is opened
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	Purpose Purpose         `json:"purpose"`
	OrderID *uuid.UUID      `json:"order_id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Method  Method          `json:"method"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(payment *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, payment.ID),
		Purpose:         payment.Purpose,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount,
		Method:          payment.Method,
	}
}

// PaymentInitiatedEvent is published when an STK push goes out
type PaymentInitiatedEvent struct {
	shared.BaseDomainEvent
	OrderID           *uuid.UUID `json:"order_id,omitempty"`
	CheckoutRequestID string    `json:"checkout_request_id"`
}

// NewPaymentInitiatedEvent creates a new PaymentInitiatedEvent
func NewPaymentInitiatedEvent(payment *Payment) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePaymentInitiated, AggregateTypePayment, payment.ID),
		OrderID:           payment.OrderID,
		CheckoutRequestID: payment.CheckoutRequestID,
	}
}

// PaymentCompletedEvent is published when money lands. The order is
// marked paid and escrow opens from this event.
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	Purpose        Purpose         `json:"purpose"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	StoreID        *uuid.UUID      `json:"store_id,omitempty"`
	SubscriptionID *uuid.UUID      `json:"subscription_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(payment *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, payment.ID),
		Purpose:         payment.Purpose,
		OrderID:         payment.OrderID,
		StoreID:         payment.StoreID,
		SubscriptionID:  payment.SubscriptionID,
		Amount:          payment.Amount,
		TransactionID:   payment.TransactionID,
	}
}

// PaymentFailedEvent is published when a payment is declined
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	Purpose    Purpose    `json:"purpose"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	ResultCode *int      `json:"result_code"`
	ResultDesc string    `json:"result_desc"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(payment *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, payment.ID),
		Purpose:         payment.Purpose,
		OrderID:         payment.OrderID,
		ResultCode:      payment.ResultCode,
		ResultDesc:      payment.ResultDesc,
	}
}

// PaymentRefundedEvent is published when a payment is reversed
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	Purpose Purpose         `json:"purpose"`
	OrderID *uuid.UUID      `json:"order_id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(payment *Payment) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypePayment, payment.ID),
		Purpose:         payment.Purpose,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount,
	}
}
