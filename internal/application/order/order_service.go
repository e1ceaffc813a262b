package order

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleRecorder is the inventory side of payment settlement: it keeps
// the stock audit trail and re-evaluates low-stock alert rules after a
// sale changes a listing's stock level.
type SaleRecorder interface {
	RecordSale(ctx context.Context, storeID, listingID uuid.UUID, previous, current int, orderRef string)
}

// OrderService handles order lifecycle after checkout. Payment
// settlement consumes the checkout's stock reservations and opens
// escrow; cancellation reverses whichever of those has happened.
type OrderService struct {
	orderRepo       order.OrderRepository
	storeRepo       store.StoreRepository
	listingRepo     catalog.ListingRepository
	reservationRepo inventory.StockReservationRepository
	paymentRepo     payment.PaymentRepository
	escrowRepo      payment.EscrowRepository
	sales           SaleRecorder
	logger          *zap.Logger
}

// NewOrderService creates a new order service. sales may be nil when
// no inventory bookkeeping is wanted.
func NewOrderService(
	orderRepo order.OrderRepository,
	storeRepo store.StoreRepository,
	listingRepo catalog.ListingRepository,
	reservationRepo inventory.StockReservationRepository,
	paymentRepo payment.PaymentRepository,
	escrowRepo payment.EscrowRepository,
	sales SaleRecorder,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:       orderRepo,
		storeRepo:       storeRepo,
		listingRepo:     listingRepo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		escrowRepo:      escrowRepo,
		sales:           sales,
		logger:          logger,
	}
}

// GetOrder returns an order visible to the caller. Buyers see their
// own orders; sellers see orders containing their items.
func (s *OrderService) GetOrder(ctx context.Context, callerID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if ord.BuyerID != callerID && !orderHasSeller(ord, callerID) {
		return nil, shared.NewDomainError("NOT_ORDER_PARTY", "You are not a party to this order")
	}

	resp := ToOrderResponse(ord)
	return &resp, nil
}

// ListMyOrders returns the caller's orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, buyerID uuid.UUID, query *OrderListQuery) (*OrderListResponse, error) {
	filter := buildFilter(query)
	orders, total, err := s.orderRepo.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders:   ToOrderListResponses(orders),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListStoreOrders returns orders containing a store's items. Only the
// store owner may call it.
func (s *OrderService) ListStoreOrders(ctx context.Context, callerID, storeID uuid.UUID, query *OrderListQuery) (*OrderListResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if st.OwnerID != callerID {
		return nil, shared.NewDomainError("NOT_STORE_OWNER", "Only the store owner can view its orders")
	}

	filter := buildFilter(query)
	orders, total, err := s.orderRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders:   ToOrderListResponses(orders),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ConfirmOrder lets a seller acknowledge a paid order
func (s *OrderService) ConfirmOrder(ctx context.Context, callerID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !orderHasSeller(ord, callerID) {
		return nil, shared.NewDomainError("NOT_ORDER_SELLER", "Only a seller in this order can confirm it")
	}

	if err := ord.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(ord)
	return &resp, nil
}

// ShipItem lets a seller flag one of their items as shipped. The
// order moves to shipped once every item is flagged.
func (s *OrderService) ShipItem(ctx context.Context, callerID, orderID, itemID uuid.UUID, trackingNumber string) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var item *order.OrderItem
	for i := range ord.Items {
		if ord.Items[i].ID == itemID {
			item = &ord.Items[i]
			break
		}
	}
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if item.SellerID != callerID {
		return nil, shared.NewDomainError("NOT_ITEM_SELLER", "Only the item's seller can ship it")
	}

	if err := ord.MarkItemShipped(itemID, trackingNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	s.logger.Info("order item shipped",
		zap.String("order_id", ord.ID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("status", string(ord.Status)))

	resp := ToOrderResponse(ord)
	return &resp, nil
}

// CancelOrder cancels an order for its buyer. Unconsumed reservations
// are released; if the payment already settled, the payment and its
// escrow are marked refunded.
func (s *OrderService) CancelOrder(ctx context.Context, callerID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.BuyerID != callerID {
		return nil, shared.NewDomainError("NOT_ORDER_BUYER", "Only the buyer can cancel this order")
	}

	wasPaid := ord.IsPaid()
	if err := ord.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	s.releaseReservations(ctx, ord)

	if wasPaid {
		s.refundSettledPayment(ctx, ord)
		s.restock(ctx, ord)
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", ord.ID.String()),
		zap.Bool("was_paid", wasPaid))

	resp := ToOrderResponse(ord)
	return &resp, nil
}

// MarkPaidFromPayment settles an order after its payment completes:
// the order is marked paid, reservations turn into real stock
// decrements, and the funds go into escrow until delivery.
func (s *OrderService) MarkPaidFromPayment(ctx context.Context, pay *payment.Payment) error {
	if pay.IsSubscriptionPurchase() || pay.OrderID == nil {
		return shared.NewDomainError("NOT_ORDER_PAYMENT", "Payment is not for an order")
	}
	if !pay.IsSettled() {
		return shared.NewDomainError("PAYMENT_NOT_SETTLED", "Payment has not completed")
	}

	ord, err := s.findOrder(ctx, *pay.OrderID)
	if err != nil {
		return err
	}

	if err := ord.MarkPaid(); err != nil {
		return err
	}
	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	s.consumeReservations(ctx, ord)
	s.decrementStock(ctx, ord)

	esc, err := payment.NewEscrow(ord.ID, pay.Amount)
	if err != nil {
		return err
	}
	if err := s.escrowRepo.Create(ctx, esc); err != nil {
		return err
	}

	s.logger.Info("order settled",
		zap.String("order_id", ord.ID.String()),
		zap.String("escrow_id", esc.ID.String()),
		zap.String("amount", pay.Amount.String()))

	return nil
}

// ReleaseForFailedPayment frees the stock reservations of an order
// whose payment failed. The order stays pending so the buyer can
// retry the prompt; stock is re-checked when a retry settles.
func (s *OrderService) ReleaseForFailedPayment(ctx context.Context, pay *payment.Payment) error {
	if pay.IsSubscriptionPurchase() || pay.OrderID == nil {
		return nil
	}

	ord, err := s.findOrder(ctx, *pay.OrderID)
	if err != nil {
		return err
	}
	if ord.Status != order.OrderStatusPending {
		return nil
	}

	s.releaseReservations(ctx, ord)

	s.logger.Info("reservations released after failed payment",
		zap.String("order_id", ord.ID.String()))

	return nil
}

func (s *OrderService) findOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	ord, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	return ord, nil
}

func (s *OrderService) consumeReservations(ctx context.Context, ord *order.Order) {
	reservations, err := s.reservationRepo.FindByOrder(ctx, ord.ID)
	if err != nil {
		s.logger.Warn("failed to load reservations", zap.String("order_id", ord.ID.String()), zap.Error(err))
		return
	}
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		if err := res.Consume(); err != nil {
			s.logger.Warn("failed to consume reservation",
				zap.String("reservation_id", res.ID.String()),
				zap.Error(err))
			continue
		}
		if err := s.reservationRepo.Update(ctx, res); err != nil {
			s.logger.Warn("failed to update reservation",
				zap.String("reservation_id", res.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *OrderService) releaseReservations(ctx context.Context, ord *order.Order) {
	reservations, err := s.reservationRepo.FindByOrder(ctx, ord.ID)
	if err != nil {
		s.logger.Warn("failed to load reservations", zap.String("order_id", ord.ID.String()), zap.Error(err))
		return
	}
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		res.Release()
		if err := s.reservationRepo.Update(ctx, res); err != nil {
			s.logger.Warn("failed to release reservation",
				zap.String("reservation_id", res.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *OrderService) decrementStock(ctx context.Context, ord *order.Order) {
	for i := range ord.Items {
		item := ord.Items[i]
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err != nil {
			s.logger.Warn("listing gone at settlement",
				zap.String("listing_id", item.ListingID.String()),
				zap.Error(err))
			continue
		}
		previous := listing.Stock
		if err := listing.DecrementStock(item.Quantity); err != nil {
			s.logger.Warn("stock decrement failed",
				zap.String("listing_id", item.ListingID.String()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			continue
		}
		if err := s.listingRepo.Update(ctx, listing); err != nil {
			s.logger.Warn("failed to persist stock decrement",
				zap.String("listing_id", item.ListingID.String()),
				zap.Error(err))
			continue
		}
		if s.sales != nil {
			s.sales.RecordSale(ctx, listing.StoreID, listing.ID, previous, listing.Stock, "Order "+ord.ID.String())
		}
	}
}

func (s *OrderService) restock(ctx context.Context, ord *order.Order) {
	for i := range ord.Items {
		item := ord.Items[i]
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err != nil {
			continue
		}
		if err := listing.IncrementStock(item.Quantity); err != nil {
			s.logger.Warn("restock failed",
				zap.String("listing_id", item.ListingID.String()),
				zap.Error(err))
			continue
		}
		if err := s.listingRepo.Update(ctx, listing); err != nil {
			s.logger.Warn("failed to persist restock",
				zap.String("listing_id", item.ListingID.String()),
				zap.Error(err))
		}
	}
}

func (s *OrderService) refundSettledPayment(ctx context.Context, ord *order.Order) {
	pay, err := s.paymentRepo.FindByOrder(ctx, ord.ID)
	if err != nil {
		s.logger.Warn("no payment found for cancelled order",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
		return
	}
	if err := pay.Refund(); err == nil {
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			s.logger.Error("failed to persist payment refund", zap.Error(uerr))
		}
	}

	esc, err := s.escrowRepo.FindByOrder(ctx, ord.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("failed to load escrow", zap.Error(err))
		}
		return
	}
	if err := esc.Refund(); err != nil {
		s.logger.Warn("escrow refund rejected",
			zap.String("escrow_id", esc.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.escrowRepo.Update(ctx, esc); err != nil {
		s.logger.Error("failed to persist escrow refund", zap.Error(err))
	}
}

func orderHasSeller(ord *order.Order, sellerID uuid.UUID) bool {
	for i := range ord.Items {
		if ord.Items[i].SellerID == sellerID {
			return true
		}
	}
	return false
}

func buildFilter(query *OrderListQuery) order.OrderFilter {
	filter := order.NewOrderFilter()
	if query == nil {
		return filter
	}
	if query.Status != "" {
		filter = filter.WithStatus(order.OrderStatus(query.Status))
	}
	page, size := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return filter.WithPagination(page, size)
}
