package notification

import (
	"context"
	"fmt"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/notification"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/review"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationEventHandler turns domain events into inbox entries.
// A notification that cannot be written is logged and dropped; the
// triggering workflow never rolls back over an inbox write.
type NotificationEventHandler struct {
	notifications *NotificationService
	orderRepo     order.OrderRepository
	storeRepo     store.StoreRepository
	listingRepo   catalog.ListingRepository
	logger        *zap.Logger
}

// NewNotificationEventHandler creates a new NotificationEventHandler
func NewNotificationEventHandler(
	notifications *NotificationService,
	orderRepo order.OrderRepository,
	storeRepo store.StoreRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *NotificationEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationEventHandler{
		notifications: notifications,
		orderRepo:     orderRepo,
		storeRepo:     storeRepo,
		listingRepo:   listingRepo,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationEventHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPaid,
		order.EventTypeOrderCancelled,
		delivery.EventTypeDeliveryStatusChanged,
		payment.EventTypeEscrowReleased,
		inventory.EventTypeAlertRaised,
		review.EventTypeReviewCreated,
		chat.EventTypeMessageSent,
	}
}

// Handle fans one domain event out into the affected inboxes
func (h *NotificationEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPaidEvent:
		h.onOrderPaid(ctx, e)
	case *order.OrderCancelledEvent:
		h.onOrderCancelled(ctx, e)
	case *delivery.DeliveryStatusChangedEvent:
		h.onDeliveryStatusChanged(ctx, e)
	case *payment.EscrowReleasedEvent:
		h.onEscrowReleased(ctx, e)
	case *inventory.AlertRaisedEvent:
		h.onAlertRaised(ctx, e)
	case *review.ReviewCreatedEvent:
		h.onReviewCreated(ctx, e)
	case *chat.MessageSentEvent:
		h.onMessageSent(ctx, e)
	default:
		h.logger.Warn("unexpected event type", zap.String("event_type", event.EventType()))
	}
	return nil
}

func (h *NotificationEventHandler) onOrderPaid(ctx context.Context, e *order.OrderPaidEvent) {
	h.send(ctx, e.BuyerID, notification.TypeOrderPaid,
		"Payment received",
		fmt.Sprintf("Your payment of KES %s was received. The seller is preparing your order.", e.TotalPrice.StringFixed(2)),
		map[string]string{"order_id": e.AggregateID().String()})

	for _, ownerID := range h.storeOwners(ctx, e.StoreIDs) {
		h.send(ctx, ownerID, notification.TypePaymentReceived,
			"New paid order",
			fmt.Sprintf("An order worth KES %s has been paid. Ship it to keep your rating up.", e.TotalPrice.StringFixed(2)),
			map[string]string{"order_id": e.AggregateID().String()})
	}
}

func (h *NotificationEventHandler) onOrderCancelled(ctx context.Context, e *order.OrderCancelledEvent) {
	h.send(ctx, e.BuyerID, notification.TypeOrderCancelled,
		"Order cancelled",
		"Your order was cancelled. Any payment made will be refunded.",
		map[string]string{"order_id": e.AggregateID().String()})
}

func (h *NotificationEventHandler) onDeliveryStatusChanged(ctx context.Context, e *delivery.DeliveryStatusChangedEvent) {
	ord, err := h.orderRepo.FindByID(ctx, e.OrderID)
	if err != nil {
		h.logger.Warn("cannot resolve order for delivery update",
			zap.String("order_id", e.OrderID.String()),
			zap.Error(err))
		return
	}

	h.send(ctx, ord.BuyerID, notification.TypeDeliveryUpdate,
		"Delivery update",
		fmt.Sprintf("Your delivery %s is now %s.", e.TrackingNumber, e.NewStatus),
		map[string]string{
			"order_id":        e.OrderID.String(),
			"tracking_number": e.TrackingNumber,
			"status":          e.NewStatus,
		})
}

func (h *NotificationEventHandler) onEscrowReleased(ctx context.Context, e *payment.EscrowReleasedEvent) {
	ord, err := h.orderRepo.FindByID(ctx, e.OrderID)
	if err != nil {
		h.logger.Warn("cannot resolve order for escrow release",
			zap.String("order_id", e.OrderID.String()),
			zap.Error(err))
		return
	}

	for _, ownerID := range h.storeOwners(ctx, ord.StoreIDs()) {
		h.send(ctx, ownerID, notification.TypeEscrowReleased,
			"Funds released",
			fmt.Sprintf("KES %s from a completed order has been released to you.", e.Amount.StringFixed(2)),
			map[string]string{"order_id": e.OrderID.String()})
	}
}

func (h *NotificationEventHandler) onAlertRaised(ctx context.Context, e *inventory.AlertRaisedEvent) {
	st, err := h.storeRepo.FindByID(ctx, e.StoreID)
	if err != nil {
		h.logger.Warn("cannot resolve store for stock alert",
			zap.String("store_id", e.StoreID.String()),
			zap.Error(err))
		return
	}

	title := "Low stock"
	message := fmt.Sprintf("A listing is down to %d units. Restock before it sells out.", e.StockLevel)
	if e.AlertType == inventory.AlertTypeOutOfStock {
		title = "Out of stock"
		message = "A listing has sold out and is no longer visible to buyers."
	}

	h.send(ctx, st.OwnerID, notification.TypeLowStock, title, message,
		map[string]string{"listing_id": e.ListingID.String()})
}

func (h *NotificationEventHandler) onReviewCreated(ctx context.Context, e *review.ReviewCreatedEvent) {
	sellerID := e.SellerID
	if sellerID == nil && e.ListingID != nil {
		listing, err := h.listingRepo.FindByID(ctx, *e.ListingID)
		if err != nil {
			h.logger.Warn("cannot resolve listing for review notification",
				zap.String("listing_id", e.ListingID.String()),
				zap.Error(err))
			return
		}
		sellerID = &listing.SellerID
	}
	if sellerID == nil {
		return
	}

	h.send(ctx, *sellerID, notification.TypeNewReview,
		"New review",
		fmt.Sprintf("A buyer left you a %d star review.", e.Rating),
		map[string]string{"review_id": e.AggregateID().String()})
}

func (h *NotificationEventHandler) onMessageSent(ctx context.Context, e *chat.MessageSentEvent) {
	if e.Muted {
		return
	}

	h.send(ctx, e.RecipientID, notification.TypeNewMessage,
		"New message",
		e.Preview,
		map[string]string{"conversation_id": e.ConversationID.String()})
}

func (h *NotificationEventHandler) storeOwners(ctx context.Context, storeIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(storeIDs))
	owners := make([]uuid.UUID, 0, len(storeIDs))
	for _, storeID := range storeIDs {
		st, err := h.storeRepo.FindByID(ctx, storeID)
		if err != nil {
			h.logger.Warn("cannot resolve store owner",
				zap.String("store_id", storeID.String()),
				zap.Error(err))
			continue
		}
		if _, ok := seen[st.OwnerID]; ok {
			continue
		}
		seen[st.OwnerID] = struct{}{}
		owners = append(owners, st.OwnerID)
	}
	return owners
}

func (h *NotificationEventHandler) send(ctx context.Context, userID uuid.UUID, notificationType notification.Type, title, message string, data any) {
	if err := h.notifications.Notify(ctx, userID, notificationType, title, message, data); err != nil {
		h.logger.Error("failed to write notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err))
	}
}
