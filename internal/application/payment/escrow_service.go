package payment

import (
	"context"
	"errors"
	"time"

	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAutoReleaseLimit = 100

// EscrowService manages funds held between payment and delivery.
// Funds release when the buyer confirms delivery, when the auto
// release window lapses, or when a dispute resolves for the seller;
// they refund when a dispute resolves for the buyer.
type EscrowService struct {
	escrowRepo  payment.EscrowRepository
	orderRepo   order.OrderRepository
	paymentRepo payment.PaymentRepository
	logger      *zap.Logger
}

// NewEscrowService creates a new escrow service
func NewEscrowService(
	escrowRepo payment.EscrowRepository,
	orderRepo order.OrderRepository,
	paymentRepo payment.PaymentRepository,
	logger *zap.Logger,
) *EscrowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscrowService{
		escrowRepo:  escrowRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetByOrder returns the escrow for an order the caller is party to
func (s *EscrowService) GetByOrder(ctx context.Context, callerID, orderID uuid.UUID) (*EscrowResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID && !orderHasSeller(ord, callerID) {
		return nil, shared.NewDomainError("NOT_ORDER_PARTY", "You are not a party to this order")
	}

	esc, err := s.findEscrow(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToEscrowResponse(esc)
	return &resp, nil
}

// ConfirmDelivery lets the buyer confirm receipt, releasing the
// escrowed funds to the seller.
func (s *EscrowService) ConfirmDelivery(ctx context.Context, callerID, orderID uuid.UUID) (*EscrowResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can confirm delivery")
	}

	esc, err := s.findEscrow(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := esc.Release(); err != nil {
		return nil, err
	}
	if err := s.escrowRepo.Update(ctx, esc); err != nil {
		return nil, err
	}

	s.logger.Info("escrow released on delivery confirmation",
		zap.String("order_id", orderID.String()),
		zap.String("escrow_id", esc.ID.String()),
		zap.String("amount", esc.Amount.String()))

	resp := ToEscrowResponse(esc)
	return &resp, nil
}

// OpenDispute freezes the escrow and flags the order disputed
func (s *EscrowService) OpenDispute(ctx context.Context, callerID, orderID uuid.UUID) (*EscrowResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can open a dispute")
	}

	esc, err := s.findEscrow(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := ord.Dispute(); err != nil {
		return nil, err
	}
	if err := esc.Dispute(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}
	if err := s.escrowRepo.Update(ctx, esc); err != nil {
		return nil, err
	}

	s.logger.Info("dispute opened",
		zap.String("order_id", orderID.String()),
		zap.String("escrow_id", esc.ID.String()))

	resp := ToEscrowResponse(esc)
	return &resp, nil
}

// ResolveDispute settles a disputed escrow. For the seller the funds
// release; for the buyer they refund and the payment follows.
func (s *EscrowService) ResolveDispute(ctx context.Context, orderID uuid.UUID, forSeller bool) (*EscrowResponse, error) {
	esc, err := s.findEscrow(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if forSeller {
		err = esc.ResolveForSeller()
	} else {
		err = esc.ResolveForBuyer()
	}
	if err != nil {
		return nil, err
	}
	if err := s.escrowRepo.Update(ctx, esc); err != nil {
		return nil, err
	}

	if !forSeller {
		s.refundPayment(ctx, orderID)
	}

	s.logger.Info("dispute resolved",
		zap.String("order_id", orderID.String()),
		zap.Bool("for_seller", forSeller))

	resp := ToEscrowResponse(esc)
	return &resp, nil
}

// AutoReleaseDue releases every held escrow whose auto-release
// deadline has passed. Returns how many were released.
func (s *EscrowService) AutoReleaseDue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultAutoReleaseLimit
	}

	due, err := s.escrowRepo.FindDueForAutoRelease(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, esc := range due {
		if err := esc.Release(); err != nil {
			s.logger.Warn("auto-release rejected",
				zap.String("escrow_id", esc.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.escrowRepo.Update(ctx, esc); err != nil {
			s.logger.Error("failed to persist auto-release",
				zap.String("escrow_id", esc.ID.String()),
				zap.Error(err))
			continue
		}
		released++
	}

	if released > 0 {
		s.logger.Info("escrows auto-released", zap.Int("count", released))
	}

	return released, nil
}

func (s *EscrowService) refundPayment(ctx context.Context, orderID uuid.UUID) {
	pay, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		s.logger.Warn("no payment to refund for disputed order",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return
	}
	if err := pay.Refund(); err != nil {
		s.logger.Warn("payment refund rejected",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.logger.Error("failed to persist payment refund",
			zap.String("payment_id", pay.ID.String()),
			zap.Error(err))
	}
}

func (s *EscrowService) findOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	return ord, nil
}

func (s *EscrowService) findEscrow(ctx context.Context, orderID uuid.UUID) (*payment.Escrow, error) {
	esc, err := s.escrowRepo.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ESCROW_NOT_FOUND", "No escrow for this order")
		}
		return nil, err
	}
	return esc, nil
}

func orderHasSeller(ord *order.Order, sellerID uuid.UUID) bool {
	for i := range ord.Items {
		if ord.Items[i].SellerID == sellerID {
			return true
		}
	}
	return false
}
