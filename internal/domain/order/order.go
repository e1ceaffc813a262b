package order

import (
	"strings"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusPartiallyShipped OrderStatus = "partially_shipped"
	OrderStatusConfirmed        OrderStatus = "confirmed"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
	OrderStatusDisputed         OrderStatus = "disputed"
)

// DeliveryState mirrors the courier's view of the order
type DeliveryState string

const (
	DeliveryStatePending        DeliveryState = "pending"
	DeliveryStateAccepted       DeliveryState = "accepted"
	DeliveryStateInTransit      DeliveryState = "in_transit"
	DeliveryStateOutForDelivery DeliveryState = "out_for_delivery"
	DeliveryStateDelivered      DeliveryState = "delivered"
	DeliveryStateFailed         DeliveryState = "failed"
	DeliveryStateCancelled      DeliveryState = "cancelled"
)

// ShippingDetails is the buyer's contact and delivery information,
// captured at checkout.
type ShippingDetails struct {
	FirstName  string `gorm:"type:varchar(100)"`
	LastName   string `gorm:"type:varchar(100)"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(20)"`
	Address    string `gorm:"type:text"`
	City       string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
}

// Order is a buyer's purchase. Items may come from several stores, so
// shipment is tracked per item; the order status follows the items.
// Shipped and delivered are courier-controlled states that only the
// delivery integration may set.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Shipping   ShippingDetails `gorm:"embedded;embeddedPrefix:shipping_"`

	PaidAt      *time.Time ``
	ShippedAt   *time.Time ``
	DeliveredAt *time.Time ``
	CancelledAt *time.Time ``

	// Delivery integration
	DeliveryRequestID string        `gorm:"type:varchar(100)"`
	DriverAssigned    bool          `gorm:"not null;default:false"`
	DeliveryState     DeliveryState `gorm:"type:varchar(20);not null;default:'pending'"`
	TrackingNumber    string        `gorm:"type:varchar(100)"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a purchased listing with its price frozen at checkout
type OrderItem struct {
	shared.BaseEntity
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListingID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title          string          `gorm:"type:varchar(200);not null"` // Snapshot, listings can change later
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Shipped        bool            `gorm:"not null;default:false"`
	ShippedAt      *time.Time      ``
	TrackingNumber string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// TotalPrice returns quantity times unit price
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine is checkout input for one listing
type OrderLine struct {
	ListingID uuid.UUID
	StoreID   uuid.UUID
	SellerID  uuid.UUID
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewOrder creates a pending order from checkout lines. Stock is
// reserved by the checkout service before the order is persisted.
func NewOrder(buyerID uuid.UUID, lines []OrderLine, shipping ShippingDetails) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER_ID", "Buyer ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		TotalPrice:        decimal.Zero,
		Status:            OrderStatusPending,
		Shipping:          shipping,
		DeliveryState:     DeliveryStatePending,
		Items:             make([]OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.ListingID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_LISTING_ID", "Listing ID cannot be empty")
		}
		if line.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() || line.UnitPrice.IsZero() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be greater than zero")
		}

		item := OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    order.ID,
			ListingID:  line.ListingID,
			StoreID:    line.StoreID,
			SellerID:   line.SellerID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		}
		order.Items = append(order.Items, item)
		order.TotalPrice = order.TotalPrice.Add(item.TotalPrice())
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// MarkPaid records a confirmed payment
func (o *Order) MarkPaid() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Only pending orders can be marked paid")
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// Confirm acknowledges a paid order before fulfilment
func (o *Order) Confirm() error {
	if o.Status != OrderStatusPaid {
		return shared.NewDomainError("INVALID_STATUS", "Only paid orders can be confirmed")
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusPaid, OrderStatusConfirmed))

	return nil
}

// MarkItemShipped flags one item shipped. The order becomes
// partially_shipped until every item is out, then shipped.
func (o *Order) MarkItemShipped(itemID uuid.UUID, trackingNumber string) error {
	if o.Status != OrderStatusPaid && o.Status != OrderStatusConfirmed && o.Status != OrderStatusPartiallyShipped {
		return shared.NewDomainError("INVALID_STATUS", "Order is not ready for shipment")
	}

	var found *OrderItem
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			found = &o.Items[i]
			break
		}
	}
	if found == nil {
		return shared.ErrNotFound
	}
	if found.Shipped {
		return shared.NewDomainError("ALREADY_SHIPPED", "Item has already shipped")
	}

	now := time.Now()
	found.Shipped = true
	found.ShippedAt = &now
	found.TrackingNumber = trackingNumber

	oldStatus := o.Status
	if o.allItemsShipped() {
		o.Status = OrderStatusShipped
		o.ShippedAt = &now
	} else {
		o.Status = OrderStatusPartiallyShipped
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	if o.Status != oldStatus {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, o.Status))
	}

	return nil
}

func (o *Order) allItemsShipped() bool {
	for i := range o.Items {
		if !o.Items[i].Shipped {
			return false
		}
	}
	return true
}

// AttachDeliveryRequest links the order to a courier delivery request
func (o *Order) AttachDeliveryRequest(requestID, trackingNumber string) error {
	if requestID == "" {
		return shared.NewDomainError("INVALID_DELIVERY_REQUEST", "Delivery request ID cannot be empty")
	}

	o.DeliveryRequestID = requestID
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// ApplyDeliveryState records a courier status update. Sellers can also
// move the order to shipped by shipping its last item; delivered is
// reachable only through here.
func (o *Order) ApplyDeliveryState(state DeliveryState) error {
	switch state {
	case DeliveryStatePending, DeliveryStateAccepted, DeliveryStateInTransit,
		DeliveryStateOutForDelivery, DeliveryStateDelivered, DeliveryStateFailed,
		DeliveryStateCancelled:
	default:
		return shared.NewDomainError("INVALID_DELIVERY_STATE", "Unknown delivery state")
	}

	now := time.Now()
	oldStatus := o.Status
	o.DeliveryState = state

	switch state {
	case DeliveryStateAccepted:
		o.DriverAssigned = true
	case DeliveryStateInTransit, DeliveryStateOutForDelivery:
		if o.Status == OrderStatusPaid || o.Status == OrderStatusConfirmed || o.Status == OrderStatusPartiallyShipped {
			o.Status = OrderStatusShipped
			o.ShippedAt = &now
			for i := range o.Items {
				if !o.Items[i].Shipped {
					o.Items[i].Shipped = true
					o.Items[i].ShippedAt = &now
				}
			}
		}
	case DeliveryStateDelivered:
		o.Status = OrderStatusDelivered
		o.DeliveredAt = &now
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	if o.Status != oldStatus {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, o.Status))
	}
	if state == DeliveryStateDelivered {
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	}

	return nil
}

// Cancel cancels an unpaid or undelivered order. Cancelling after
// payment triggers an escrow refund in the payment service.
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusConfirmed:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Order can no longer be cancelled")
	}

	now := time.Now()
	oldStatus := o.Status
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.DeliveryState = DeliveryStateCancelled
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, oldStatus))

	return nil
}

// Dispute freezes the order pending resolution; escrow release halts
func (o *Order) Dispute() error {
	switch o.Status {
	case OrderStatusPaid, OrderStatusConfirmed, OrderStatusPartiallyShipped,
		OrderStatusShipped, OrderStatusDelivered:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Only paid orders can be disputed")
	}

	oldStatus := o.Status
	o.Status = OrderStatusDisputed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDisputedEvent(o, oldStatus))

	return nil
}

// IsPaid returns true once payment has been confirmed
func (o *Order) IsPaid() bool {
	return o.PaidAt != nil && o.Status != OrderStatusCancelled
}

// BuyerName returns the shipping contact's full name
func (o *Order) BuyerName() string {
	return strings.TrimSpace(o.Shipping.FirstName + " " + o.Shipping.LastName)
}

// StoreIDs returns the distinct stores involved in the order
func (o *Order) StoreIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for i := range o.Items {
		if !seen[o.Items[i].StoreID] {
			seen[o.Items[i].StoreID] = true
			ids = append(ids, o.Items[i].StoreID)
		}
	}
	return ids
}

func validateShipping(s ShippingDetails) error {
	if strings.TrimSpace(s.Phone) == "" {
		return shared.NewDomainError("INVALID_SHIPPING", "Contact phone is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		return shared.NewDomainError("INVALID_SHIPPING", "Shipping address is required")
	}
	if len(s.FirstName) > 100 || len(s.LastName) > 100 {
		return shared.NewDomainError("INVALID_SHIPPING", "Name fields cannot exceed 100 characters")
	}
	return nil
}
