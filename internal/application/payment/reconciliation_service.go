package payment

import (
	"context"
	"time"

	"github.com/baysoko/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// Daraja result codes worth naming. 1032 is the customer dismissing
// the prompt; 1037 is the prompt timing out unanswered.
const (
	resultCancelledByUser = 1032
	resultTimeout         = 1037
)

const defaultReconcileLimit = 100

// ReconciliationService resolves payments whose callback never
// arrived. Anything stuck in initiated past the cutoff is queried
// against the gateway and settled or failed from the answer.
type ReconciliationService struct {
	paymentRepo   payment.PaymentRepository
	gateway       payment.MpesaGateway
	orders        OrderSettler
	subscriptions SubscriptionActivator
	logger        *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	paymentRepo payment.PaymentRepository,
	gateway payment.MpesaGateway,
	orders OrderSettler,
	subscriptions SubscriptionActivator,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		orders:        orders,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// ReconcileStale queries payments initiated more than olderThan ago
// and applies whatever the gateway reports. Returns how many payments
// reached a final state.
func (s *ReconciliationService) ReconcileStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultReconcileLimit
	}

	stale, err := s.paymentRepo.FindStaleInitiated(ctx, time.Now().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, pay := range stale {
		status, err := s.gateway.QueryStatus(ctx, pay.CheckoutRequestID)
		if err != nil {
			s.logger.Warn("status query failed",
				zap.String("payment_id", pay.ID.String()),
				zap.String("checkout_request_id", pay.CheckoutRequestID),
				zap.Error(err))
			continue
		}

		if status.ResultCode == 0 {
			s.settleFromQuery(ctx, pay)
		} else {
			s.failFromQuery(ctx, pay, status)
		}
		resolved++
	}

	if resolved > 0 {
		s.logger.Info("stale payments reconciled",
			zap.Int("checked", len(stale)),
			zap.Int("resolved", resolved))
	}

	return resolved, nil
}

func (s *ReconciliationService) settleFromQuery(ctx context.Context, pay *payment.Payment) {
	// The status query carries no receipt number; the correlation ID
	// stands in until the real receipt shows up in a statement pull
	if err := pay.Complete(pay.CheckoutRequestID, pay.Amount, nil); err != nil {
		s.logger.Error("reconciled payment could not be completed",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.logger.Error("failed to persist reconciled payment",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}

	var err error
	if pay.IsSubscriptionPurchase() {
		err = s.subscriptions.ActivateFromPayment(ctx, pay)
	} else {
		err = s.orders.MarkPaidFromPayment(ctx, pay)
	}
	if err != nil {
		s.logger.Error("reconciled payment could not be applied",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
	}
}

func (s *ReconciliationService) failFromQuery(ctx context.Context, pay *payment.Payment, status *payment.QueryResponse) {
	if err := pay.Fail(status.ResultCode, status.ResultDesc, nil); err != nil {
		s.logger.Warn("reconciled payment could not be failed",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.logger.Error("failed to persist reconciled failure",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}

	switch status.ResultCode {
	case resultCancelledByUser, resultTimeout:
		s.logger.Info("stale payment abandoned by customer",
			zap.String("payment_id", pay.ID.String()),
			zap.Int("result_code", status.ResultCode))
	default:
		s.logger.Warn("stale payment failed from query",
			zap.String("payment_id", pay.ID.String()),
			zap.Int("result_code", status.ResultCode),
			zap.String("result_desc", status.ResultDesc))
	}

	var err error
	if pay.IsSubscriptionPurchase() {
		err = s.subscriptions.HandleFailedPayment(ctx, pay)
	} else {
		err = s.orders.ReleaseForFailedPayment(ctx, pay)
	}
	if err != nil {
		s.logger.Error("reconciled failure could not be unwound",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
	}
}
