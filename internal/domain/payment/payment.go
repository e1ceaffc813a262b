package payment

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method represents how the buyer pays
type Method string

const (
	MethodMpesa        Method = "mpesa"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
)

// IsValid checks if the payment method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodMpesa, MethodBankTransfer, MethodCash:
		return true
	default:
		return false
	}
}

// Purpose says what a payment settles
type Purpose string

const (
	PurposeOrder        Purpose = "order"
	PurposeSubscription Purpose = "subscription"
)

// Status represents the lifecycle state of a payment
type Status string

const (
	StatusPending   Status = "pending"
	StatusInitiated Status = "initiated" // STK push sent, awaiting callback
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Payment is the money side of an order or a subscription purchase.
// One payment per order; a failed payment is retried in place rather
// than duplicated. Subscription purchases carry the store and plan so
// the callback can activate without a pre-created subscription row.
type Payment struct {
	shared.BaseAggregateRoot
	Purpose Purpose         `gorm:"type:varchar(20);not null;default:'order';index"`
	OrderID *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Amount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Method  Method          `gorm:"type:varchar(20);not null;default:'mpesa'"`
	Status  Status          `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Subscription purchase context
	StoreID        *uuid.UUID `gorm:"type:uuid;index"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index"`
	Plan           string     `gorm:"type:varchar(20)"`

	TransactionID string `gorm:"type:varchar(100);index"` // M-Pesa receipt number

	// STK push correlation
	MpesaPhone        string         `gorm:"type:varchar(15)"`
	CheckoutRequestID string         `gorm:"type:varchar(100);uniqueIndex"`
	MerchantRequestID string         `gorm:"type:varchar(100)"`
	ResultCode        *int   ``
	ResultDesc        string `gorm:"type:text"`
	CallbackData      []byte `gorm:"type:jsonb"` // Raw callback, kept for reconciliation

	CompletedAt *time.Time ``
	RefundedAt  *time.Time ``
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment for an order
func NewPayment(orderID uuid.UUID, amount decimal.Decimal, method Method) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}

	payment := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Purpose:           PurposeOrder,
		OrderID:           &orderID,
		Amount:            amount,
		Method:            method,
		Status:            StatusPending,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// NewSubscriptionPayment creates a pending payment for a subscription
// purchase. subscriptionID is nil for a first purchase; the callback
// creates the subscription once the money lands.
func NewSubscriptionPayment(storeID uuid.UUID, subscriptionID *uuid.UUID, plan string, amount decimal.Decimal) (*Payment, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if plan == "" {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}

	payment := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Purpose:           PurposeSubscription,
		StoreID:           &storeID,
		SubscriptionID:    subscriptionID,
		Plan:              plan,
		Amount:            amount,
		Method:            MethodMpesa,
		Status:            StatusPending,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// IsSubscriptionPurchase reports whether the payment buys a
// subscription period rather than settling an order.
func (p *Payment) IsSubscriptionPurchase() bool {
	return p.Purpose == PurposeSubscription
}

// MarkInitiated records a sent STK push awaiting its callback
func (p *Payment) MarkInitiated(phone, checkoutRequestID, merchantRequestID string) error {
	if p.Status != StatusPending && p.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATUS", "Payment has already been initiated")
	}
	if checkoutRequestID == "" {
		return shared.NewDomainError("INVALID_CHECKOUT_REQUEST", "Checkout request ID cannot be empty")
	}

	p.Status = StatusInitiated
	p.Method = MethodMpesa
	p.MpesaPhone = phone
	p.CheckoutRequestID = checkoutRequestID
	p.MerchantRequestID = merchantRequestID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentInitiatedEvent(p))

	return nil
}

// Complete settles the payment from a successful callback. The paid
// amount must match the expected amount exactly; a mismatch leaves the
// payment untouched for manual reconciliation.
func (p *Payment) Complete(transactionID string, paidAmount decimal.Decimal, callbackData []byte) error {
	if p.Status == StatusCompleted {
		return shared.NewDomainError("ALREADY_COMPLETED", "Payment is already completed")
	}
	if p.Status != StatusInitiated && p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Payment cannot be completed from its current status")
	}
	if transactionID == "" {
		return shared.NewDomainError("INVALID_TRANSACTION_ID", "Transaction ID cannot be empty")
	}
	if !paidAmount.Equal(p.Amount) {
		return shared.NewDomainError("AMOUNT_MISMATCH", "Paid amount does not match the expected amount")
	}

	now := time.Now()
	p.Status = StatusCompleted
	p.TransactionID = transactionID
	p.CallbackData = callbackData
	zero := 0
	p.ResultCode = &zero
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentCompletedEvent(p))

	return nil
}

// Fail records a declined or errored payment. The buyer can retry,
// which moves the payment back through MarkInitiated.
func (p *Payment) Fail(resultCode int, resultDesc string, callbackData []byte) error {
	if p.Status == StatusCompleted || p.Status == StatusRefunded {
		return shared.NewDomainError("INVALID_STATUS", "Settled payments cannot fail")
	}

	p.Status = StatusFailed
	p.ResultCode = &resultCode
	p.ResultDesc = resultDesc
	if callbackData != nil {
		p.CallbackData = callbackData
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentFailedEvent(p))

	return nil
}

// Refund reverses a completed payment, typically after an order
// cancellation or a dispute resolved for the buyer.
func (p *Payment) Refund() error {
	if p.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATUS", "Only completed payments can be refunded")
	}

	now := time.Now()
	p.Status = StatusRefunded
	p.RefundedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRefundedEvent(p))

	return nil
}

// IsSettled returns true once money has moved and stayed
func (p *Payment) IsSettled() bool {
	return p.Status == StatusCompleted
}
