package payment

import (
	"time"

	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RetryPaymentRequest re-sends the STK push for a failed payment
type RetryPaymentRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrderID           *uuid.UUID      `json:"order_id,omitempty"`
	Purpose           string          `json:"purpose"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	Status            string          `json:"status"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	MpesaPhone        string          `json:"mpesa_phone,omitempty"`
	CheckoutRequestID string          `json:"checkout_request_id,omitempty"`
	ResultDesc        string          `json:"result_desc,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// RetryPaymentResponse carries the fresh STK prompt
type RetryPaymentResponse struct {
	PaymentID         uuid.UUID `json:"payment_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	CustomerMessage   string    `json:"customer_message,omitempty"`
}

// CallbackAck is the body M-Pesa expects back from the callback URL.
// Daraja treats anything but a zero ResultCode as a delivery failure
// and retries, so the handler acknowledges even payloads it cannot use.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// EscrowResponse represents an escrow in API responses
type EscrowResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	AutoReleaseAt *time.Time      `json:"auto_release_at,omitempty"`
	ReleasedAt    *time.Time      `json:"released_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment to its response DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		Purpose:           string(p.Purpose),
		Amount:            p.Amount,
		Method:            string(p.Method),
		Status:            string(p.Status),
		TransactionID:     p.TransactionID,
		MpesaPhone:        p.MpesaPhone,
		CheckoutRequestID: p.CheckoutRequestID,
		ResultDesc:        p.ResultDesc,
		CompletedAt:       p.CompletedAt,
		CreatedAt:         p.CreatedAt,
	}
}

// ToEscrowResponse converts an escrow to its response DTO
func ToEscrowResponse(e *payment.Escrow) EscrowResponse {
	return EscrowResponse{
		ID:            e.ID,
		OrderID:       e.OrderID,
		Amount:        e.Amount,
		Status:        string(e.Status),
		AutoReleaseAt: e.AutoReleaseAt,
		ReleasedAt:    e.ReleasedAt,
		CreatedAt:     e.CreatedAt,
	}
}
