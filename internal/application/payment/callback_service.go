package payment

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const callbackDedupTTL = 24 * time.Hour

// OrderSettler is the order side of payment settlement
type OrderSettler interface {
	MarkPaidFromPayment(ctx context.Context, pay *payment.Payment) error
	ReleaseForFailedPayment(ctx context.Context, pay *payment.Payment) error
}

// SubscriptionActivator is the subscription side of payment settlement
type SubscriptionActivator interface {
	ActivateFromPayment(ctx context.Context, pay *payment.Payment) error
	HandleFailedPayment(ctx context.Context, pay *payment.Payment) error
}

// CallbackService processes M-Pesa STK callbacks. Daraja retries
// undelivered callbacks, so processing is deduplicated per
// CheckoutRequestID and the handler acknowledges everything it can
// parse; an unknown or already-settled payment is logged, not bounced.
type CallbackService struct {
	paymentRepo   payment.PaymentRepository
	gateway       payment.MpesaGateway
	dedup         shared.IdempotencyStore
	orders        OrderSettler
	subscriptions SubscriptionActivator
	logger        *zap.Logger
}

// NewCallbackService creates a new callback service
func NewCallbackService(
	paymentRepo payment.PaymentRepository,
	gateway payment.MpesaGateway,
	dedup shared.IdempotencyStore,
	orders OrderSettler,
	subscriptions SubscriptionActivator,
	logger *zap.Logger,
) *CallbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackService{
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		dedup:         dedup,
		orders:        orders,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// HandleCallback parses and applies one callback payload. The
// returned ack goes back to Daraja verbatim; an error means the
// payload itself was unreadable.
func (s *CallbackService) HandleCallback(ctx context.Context, payload []byte) (*CallbackAck, error) {
	cb, err := s.gateway.ParseCallback(ctx, payload)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CALLBACK", "Callback payload could not be parsed")
	}

	fresh, err := s.dedup.MarkProcessed(ctx, "mpesa:callback:"+cb.CheckoutRequestID, callbackDedupTTL)
	if err != nil {
		// Redis down; proceed, the domain state machine rejects replays
		s.logger.Warn("callback dedup check failed", zap.Error(err))
	} else if !fresh {
		s.logger.Info("duplicate callback ignored",
			zap.String("checkout_request_id", cb.CheckoutRequestID))
		return ack(), nil
	}

	pay, err := s.paymentRepo.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		s.logger.Error("callback for unknown payment",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Int("result_code", cb.ResultCode),
			zap.Error(err))
		return ack(), nil
	}

	if cb.Succeeded() {
		s.settle(ctx, pay, cb)
	} else {
		s.fail(ctx, pay, cb)
	}

	return ack(), nil
}

func (s *CallbackService) settle(ctx context.Context, pay *payment.Payment, cb *payment.STKCallback) {
	if err := pay.Complete(cb.MpesaReceipt, cb.Amount, cb.RawPayload); err != nil {
		// Amount mismatches and replays land here; the payment is left
		// untouched for reconciliation
		s.logger.Error("payment could not be completed from callback",
			zap.String("payment_id", pay.ID.String()),
			zap.String("receipt", cb.MpesaReceipt),
			zap.String("amount", cb.Amount.String()),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.logger.Error("failed to persist completed payment",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}

	s.logger.Info("payment completed",
		zap.String("payment_id", pay.ID.String()),
		zap.String("purpose", string(pay.Purpose)),
		zap.String("receipt", cb.MpesaReceipt))

	var err error
	if pay.IsSubscriptionPurchase() {
		err = s.subscriptions.ActivateFromPayment(ctx, pay)
	} else {
		err = s.orders.MarkPaidFromPayment(ctx, pay)
	}
	if err != nil {
		s.logger.Error("settled payment could not be applied",
			zap.String("payment_id", pay.ID.String()),
			zap.String("purpose", string(pay.Purpose)),
			zap.Error(err))
	}
}

func (s *CallbackService) fail(ctx context.Context, pay *payment.Payment, cb *payment.STKCallback) {
	if err := pay.Fail(cb.ResultCode, cb.ResultDesc, cb.RawPayload); err != nil {
		s.logger.Warn("failure callback for settled payment",
			zap.String("payment_id", pay.ID.String()),
			zap.Int("result_code", cb.ResultCode),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.logger.Error("failed to persist failed payment",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}

	s.logger.Info("payment failed",
		zap.String("payment_id", pay.ID.String()),
		zap.Int("result_code", cb.ResultCode),
		zap.String("result_desc", cb.ResultDesc))

	var err error
	if pay.IsSubscriptionPurchase() {
		err = s.subscriptions.HandleFailedPayment(ctx, pay)
	} else {
		err = s.orders.ReleaseForFailedPayment(ctx, pay)
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed payment could not be unwound",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
	}
}

func ack() *CallbackAck {
	return &CallbackAck{ResultCode: 0, ResultDesc: "Accepted"}
}
