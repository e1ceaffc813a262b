package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// STKPushRequest asks the M-Pesa gateway to prompt the customer's
// phone for payment confirmation.
type STKPushRequest struct {
	OrderID          uuid.UUID
	Amount           decimal.Decimal
	Phone            string
	AccountReference string
	Description      string
}

// STKPushResponse carries the gateway's correlation identifiers for
// the prompted payment. CheckoutRequestID matches later callbacks.
type STKPushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// STKCallback is the parsed payload M-Pesa posts after the customer
// responds to the prompt. ResultCode zero means the payment succeeded.
type STKCallback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            decimal.Decimal
	MpesaReceipt      string
	Phone             string
	RawPayload        []byte
}

// Succeeded reports whether the customer completed the payment
func (c *STKCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// QueryResponse is the gateway's answer to a status query for a
// payment that never received a callback.
type QueryResponse struct {
	ResultCode int
	ResultDesc string
}

// MpesaGateway is the port for the M-Pesa Daraja STK push flow.
// Implementations live in infrastructure.
type MpesaGateway interface {
	// STKPush initiates a payment prompt on the customer's phone
	STKPush(ctx context.Context, req *STKPushRequest) (*STKPushResponse, error)

	// QueryStatus queries the outcome of a previously initiated push
	QueryStatus(ctx context.Context, checkoutRequestID string) (*QueryResponse, error)

	// ParseCallback parses and validates a callback payload
	ParseCallback(ctx context.Context, payload []byte) (*STKCallback, error)
}
