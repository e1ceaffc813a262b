package payment

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const retryDescription = "Order payment"

// PaymentService exposes payment status to buyers and re-sends the
// STK prompt for failed order payments.
type PaymentService struct {
	paymentRepo payment.PaymentRepository
	orderRepo   order.OrderRepository
	gateway     payment.MpesaGateway
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	orderRepo order.OrderRepository,
	gateway payment.MpesaGateway,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// GetByOrder returns the payment for one of the caller's orders
func (s *PaymentService) GetByOrder(ctx context.Context, callerID, orderID uuid.UUID) (*PaymentResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can view this payment")
	}

	pay, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "No payment for this order")
		}
		return nil, err
	}

	resp := ToPaymentResponse(pay)
	return &resp, nil
}

// Retry re-sends the STK push for a failed payment on a still-pending
// order. Completed and in-flight payments cannot be retried.
func (s *PaymentService) Retry(ctx context.Context, callerID, orderID uuid.UUID, req *RetryPaymentRequest) (*RetryPaymentResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can retry this payment")
	}
	if ord.Status != order.OrderStatusPending {
		return nil, shared.NewDomainError("ORDER_NOT_PENDING", "Order is no longer awaiting payment")
	}

	pay, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "No payment for this order")
		}
		return nil, err
	}
	if pay.Status != payment.StatusFailed && pay.Status != payment.StatusPending {
		return nil, shared.NewDomainError("PAYMENT_NOT_RETRYABLE", "Payment is not in a retryable state")
	}

	phone, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone must be a valid Kenyan mobile number")
	}

	resp, err := s.gateway.STKPush(ctx, &payment.STKPushRequest{
		OrderID:          ord.ID,
		Amount:           pay.Amount,
		Phone:            phone.MSISDN(),
		AccountReference: "BS-" + ord.ID.String()[:8],
		Description:      retryDescription,
	})
	if err != nil {
		s.logger.Error("STK push retry failed",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STK_PUSH_FAILED", "Could not initiate M-Pesa payment")
	}

	if err := pay.MarkInitiated(phone.MSISDN(), resp.CheckoutRequestID, resp.MerchantRequestID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	s.logger.Info("payment retry initiated",
		zap.String("payment_id", pay.ID.String()),
		zap.String("checkout_request_id", resp.CheckoutRequestID))

	return &RetryPaymentResponse{
		PaymentID:         pay.ID,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (s *PaymentService) findOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	return ord, nil
}
