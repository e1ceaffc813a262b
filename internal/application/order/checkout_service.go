package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const checkoutDescription = "Order payment"

// CheckoutService turns a cart into a pending order. Stock is not
// decremented here; each line gets a short-lived reservation and the
// real decrement happens when the payment callback settles. The M-Pesa
// prompt goes out before the response returns, so a buyer who never
// pays leaves only an expired reservation behind.
type CheckoutService struct {
	cartRepo        order.CartRepository
	orderRepo       order.OrderRepository
	listingRepo     catalog.ListingRepository
	reservationRepo inventory.StockReservationRepository
	paymentRepo     payment.PaymentRepository
	gateway         payment.MpesaGateway
	logger          *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cartRepo order.CartRepository,
	orderRepo order.OrderRepository,
	listingRepo catalog.ListingRepository,
	reservationRepo inventory.StockReservationRepository,
	paymentRepo payment.PaymentRepository,
	gateway payment.MpesaGateway,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		cartRepo:        cartRepo,
		orderRepo:       orderRepo,
		listingRepo:     listingRepo,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		gateway:         gateway,
		logger:          logger,
	}
}

// Checkout creates an order from the caller's cart and sends the STK
// push. Every line is validated against live stock minus what other
// pending checkouts have reserved.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*CheckoutResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("CART_EMPTY", "Cart is empty")
	}

	rawPhone := req.MpesaPhone
	if rawPhone == "" {
		rawPhone = req.Phone
	}
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone must be a valid Kenyan mobile number")
	}

	lines := make([]order.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("LISTING_UNAVAILABLE", "A listing in the cart is no longer available")
			}
			return nil, err
		}

		reserved, err := s.reservationRepo.ActiveQuantityByListing(ctx, item.ListingID)
		if err != nil {
			return nil, err
		}
		if !listing.IsAvailable(item.Quantity) || item.Quantity > listing.Stock-reserved {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Not enough stock for %q", listing.Title))
		}

		lines = append(lines, order.OrderLine{
			ListingID: listing.ID,
			StoreID:   listing.StoreID,
			SellerID:  listing.SellerID,
			Title:     listing.Title,
			Quantity:  item.Quantity,
			UnitPrice: listing.EffectivePrice(),
		})
	}

	ord, err := order.NewOrder(userID, lines, order.ShippingDetails{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, ord); err != nil {
		return nil, err
	}

	for _, line := range lines {
		res, err := inventory.NewStockReservation(line.ListingID, ord.ID, line.Quantity, inventory.DefaultReservationTTL)
		if err != nil {
			return nil, err
		}
		if err := s.reservationRepo.Create(ctx, res); err != nil {
			return nil, err
		}
	}

	pay, err := payment.NewPayment(ord.ID, ord.TotalPrice, payment.MethodMpesa)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, pay); err != nil {
		return nil, err
	}

	resp, err := s.gateway.STKPush(ctx, &payment.STKPushRequest{
		OrderID:          ord.ID,
		Amount:           ord.TotalPrice,
		Phone:            phone.MSISDN(),
		AccountReference: shortReference(ord.ID),
		Description:      checkoutDescription,
	})
	if err != nil {
		s.logger.Error("STK push failed at checkout",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
		if failErr := pay.Fail(-1, "STK push failed", nil); failErr == nil {
			if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
				s.logger.Error("failed to record STK push failure", zap.Error(uerr))
			}
		}
		s.releaseReservations(ctx, ord.ID)
		return nil, shared.NewDomainError("STK_PUSH_FAILED", "Could not initiate M-Pesa payment")
	}

	if err := pay.MarkInitiated(phone.MSISDN(), resp.CheckoutRequestID, resp.MerchantRequestID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		return nil, err
	}

	cart.Clear()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("checkout completed",
		zap.String("order_id", ord.ID.String()),
		zap.String("buyer_id", userID.String()),
		zap.String("total", ord.TotalPrice.String()),
		zap.String("checkout_request_id", resp.CheckoutRequestID))

	return &CheckoutResponse{
		OrderID:           ord.ID,
		TotalPrice:        ord.TotalPrice,
		PaymentID:         pay.ID,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (s *CheckoutService) releaseReservations(ctx context.Context, orderID uuid.UUID) {
	reservations, err := s.reservationRepo.FindByOrder(ctx, orderID)
	if err != nil {
		s.logger.Warn("failed to load reservations for release",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
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

// shortReference builds the STK account reference from the order ID.
// Daraja caps the field at 12 characters.
func shortReference(orderID uuid.UUID) string {
	return "BS-" + orderID.String()[:8]
}
