package event

import (
	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/chat"
	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/baysoko/backend/internal/domain/identity"
	"github.com/baysoko/backend/internal/domain/inventory"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/domain/review"
	"github.com/baysoko/backend/internal/domain/store"
	"github.com/baysoko/backend/internal/domain/subscription"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserBecameSeller, &identity.UserBecameSellerEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})

	// Catalog domain - Listing events
	serializer.Register(catalog.EventTypeListingCreated, &catalog.ListingCreatedEvent{})
	serializer.Register(catalog.EventTypeListingUpdated, &catalog.ListingUpdatedEvent{})
	serializer.Register(catalog.EventTypeListingPriceChanged, &catalog.ListingPriceChangedEvent{})
	serializer.Register(catalog.EventTypeListingFeatured, &catalog.ListingFeaturedEvent{})
	serializer.Register(catalog.EventTypeListingSoldOut, &catalog.ListingSoldOutEvent{})
	serializer.Register(catalog.EventTypeListingStockAdjusted, &catalog.ListingStockAdjustedEvent{})
	serializer.Register(catalog.EventTypeListingStatusChanged, &catalog.ListingStatusChangedEvent{})
	serializer.Register(catalog.EventTypeListingDeleted, &catalog.ListingDeletedEvent{})

	// Catalog domain - Listing image events
	serializer.Register(catalog.EventTypeListingImageCreated, &catalog.ListingImageCreatedEvent{})
	serializer.Register(catalog.EventTypeListingImageConfirmed, &catalog.ListingImageConfirmedEvent{})
	serializer.Register(catalog.EventTypeListingImageDeleted, &catalog.ListingImageDeletedEvent{})

	// Catalog domain - Category events
	serializer.Register(catalog.EventTypeCategoryCreated, &catalog.CategoryCreatedEvent{})
	serializer.Register(catalog.EventTypeCategoryUpdated, &catalog.CategoryUpdatedEvent{})
	serializer.Register(catalog.EventTypeCategoryStatusChanged, &catalog.CategoryStatusChangedEvent{})
	serializer.Register(catalog.EventTypeCategoryDeleted, &catalog.CategoryDeletedEvent{})

	// Store domain events
	serializer.Register(store.EventTypeStoreCreated, &store.StoreCreatedEvent{})
	serializer.Register(store.EventTypeStoreUpdated, &store.StoreUpdatedEvent{})
	serializer.Register(store.EventTypeStorePremiumChanged, &store.StorePremiumChangedEvent{})
	serializer.Register(store.EventTypeStoreStatusChanged, &store.StoreStatusChangedEvent{})
	serializer.Register(store.EventTypeStoreReviewCreated, &store.StoreReviewCreatedEvent{})
	serializer.Register(store.EventTypeBundleCreated, &store.BundleCreatedEvent{})

	// Order domain events
	serializer.Register(order.EventTypeOrderCreated, &order.OrderCreatedEvent{})
	serializer.Register(order.EventTypeOrderPaid, &order.OrderPaidEvent{})
	serializer.Register(order.EventTypeOrderStatusChanged, &order.OrderStatusChangedEvent{})
	serializer.Register(order.EventTypeOrderDelivered, &order.OrderDeliveredEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})
	serializer.Register(order.EventTypeOrderDisputed, &order.OrderDisputedEvent{})

	// Payment domain events
	serializer.Register(payment.EventTypePaymentCreated, &payment.PaymentCreatedEvent{})
	serializer.Register(payment.EventTypePaymentInitiated, &payment.PaymentInitiatedEvent{})
	serializer.Register(payment.EventTypePaymentCompleted, &payment.PaymentCompletedEvent{})
	serializer.Register(payment.EventTypePaymentFailed, &payment.PaymentFailedEvent{})
	serializer.Register(payment.EventTypePaymentRefunded, &payment.PaymentRefundedEvent{})

	// Payment domain - Escrow events
	serializer.Register(payment.EventTypeEscrowOpened, &payment.EscrowOpenedEvent{})
	serializer.Register(payment.EventTypeEscrowReleased, &payment.EscrowReleasedEvent{})
	serializer.Register(payment.EventTypeEscrowRefunded, &payment.EscrowRefundedEvent{})
	serializer.Register(payment.EventTypeEscrowDisputed, &payment.EscrowDisputedEvent{})

	// Delivery domain events
	serializer.Register(delivery.EventTypeDeliveryRequestCreated, &delivery.DeliveryRequestCreatedEvent{})
	serializer.Register(delivery.EventTypeDeliveryStatusChanged, &delivery.DeliveryStatusChangedEvent{})
	serializer.Register(delivery.EventTypeDeliveryCompleted, &delivery.DeliveryCompletedEvent{})

	// Subscription domain events
	serializer.Register(subscription.EventTypeTrialStarted, &subscription.TrialStartedEvent{})
	serializer.Register(subscription.EventTypeTrialConverted, &subscription.TrialConvertedEvent{})
	serializer.Register(subscription.EventTypeSubscriptionActivated, &subscription.SubscriptionActivatedEvent{})
	serializer.Register(subscription.EventTypeSubscriptionRenewed, &subscription.SubscriptionRenewedEvent{})
	serializer.Register(subscription.EventTypePlanChanged, &subscription.PlanChangedEvent{})
	serializer.Register(subscription.EventTypeSubscriptionCanceled, &subscription.SubscriptionCanceledEvent{})
	serializer.Register(subscription.EventTypeSubscriptionPastDue, &subscription.SubscriptionPastDueEvent{})
	serializer.Register(subscription.EventTypeSubscriptionLapsed, &subscription.SubscriptionLapsedEvent{})

	// Review domain events
	serializer.Register(review.EventTypeReviewCreated, &review.ReviewCreatedEvent{})

	// Inventory domain events
	serializer.Register(inventory.EventTypeAlertRaised, &inventory.AlertRaisedEvent{})

	// Chat domain events
	serializer.Register(chat.EventTypeConversationStarted, &chat.ConversationStartedEvent{})
	serializer.Register(chat.EventTypeMessageSent, &chat.MessageSentEvent{})
}
