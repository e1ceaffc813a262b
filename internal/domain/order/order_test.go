package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipping() ShippingDetails {
	return ShippingDetails{
		FirstName:  "Akinyi",
		LastName:   "Odhiambo",
		Email:      "akinyi@example.com",
		Phone:      "254712345678",
		Address:    "Sofia estate, house 12",
		City:       "Homa Bay Town",
		PostalCode: "40300",
	}
}

func testLines(storeID uuid.UUID) []OrderLine {
	return []OrderLine{
		{
			ListingID: uuid.New(),
			StoreID:   storeID,
			SellerID:  uuid.New(),
			Title:     "Samsung Galaxy A14",
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(18500),
		},
		{
			ListingID: uuid.New(),
			StoreID:   storeID,
			SellerID:  uuid.New(),
			Title:     "Phone case",
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(500),
		},
	}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(uuid.New(), testLines(uuid.New()), testShipping())
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with summed total", func(t *testing.T) {
		order := newTestOrder(t)

		assert.Equal(t, OrderStatusPending, order.Status)
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(19500)))
		assert.Len(t, order.Items, 2)
		assert.Equal(t, DeliveryStatePending, order.DeliveryState)
		assert.Equal(t, "Akinyi Odhiambo", order.BuyerName())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("deduplicates store IDs", func(t *testing.T) {
		storeID := uuid.New()
		order, err := NewOrder(uuid.New(), testLines(storeID), testShipping())
		require.NoError(t, err)
		require.Len(t, order.StoreIDs(), 1)
		assert.Equal(t, storeID, order.StoreIDs()[0])
	})

	t.Run("rejects empty orders", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil, testShipping())
		require.Error(t, err)
	})

	t.Run("rejects missing shipping phone", func(t *testing.T) {
		shipping := testShipping()
		shipping.Phone = " "
		_, err := NewOrder(uuid.New(), testLines(uuid.New()), shipping)
		require.Error(t, err)
	})

	t.Run("rejects zero quantity line", func(t *testing.T) {
		lines := testLines(uuid.New())
		lines[0].Quantity = 0
		_, err := NewOrder(uuid.New(), lines, testShipping())
		require.Error(t, err)
	})
}

func TestOrderPayment(t *testing.T) {
	t.Run("pending order can be paid", func(t *testing.T) {
		order := newTestOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.MarkPaid())
		assert.Equal(t, OrderStatusPaid, order.Status)
		assert.NotNil(t, order.PaidAt)
		assert.True(t, order.IsPaid())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPaid, events[0].EventType())
	})

	t.Run("paying twice fails", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.Error(t, order.MarkPaid())
	})

	t.Run("confirm requires paid", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.Confirm())
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.Confirm())
		assert.Equal(t, OrderStatusConfirmed, order.Status)
	})
}

func TestOrderItemShipment(t *testing.T) {
	t.Run("partial then full shipment", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())

		require.NoError(t, order.MarkItemShipped(order.Items[0].ID, "TRK-001"))
		assert.Equal(t, OrderStatusPartiallyShipped, order.Status)
		assert.True(t, order.Items[0].Shipped)
		assert.Equal(t, "TRK-001", order.Items[0].TrackingNumber)

		require.NoError(t, order.MarkItemShipped(order.Items[1].ID, "TRK-002"))
		assert.Equal(t, OrderStatusShipped, order.Status)
		assert.NotNil(t, order.ShippedAt)
	})

	t.Run("cannot ship an unpaid order", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.MarkItemShipped(order.Items[0].ID, "TRK-001")
		require.Error(t, err)
	})

	t.Run("cannot ship the same item twice", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.MarkItemShipped(order.Items[0].ID, "TRK-001"))
		err := order.MarkItemShipped(order.Items[0].ID, "TRK-001")
		require.Error(t, err)
	})

	t.Run("unknown item fails", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		err := order.MarkItemShipped(uuid.New(), "TRK-001")
		require.Error(t, err)
	})
}

func TestOrderDeliveryStates(t *testing.T) {
	t.Run("courier transit marks the order shipped", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.AttachDeliveryRequest("DR-123", "TRK-900"))

		require.NoError(t, order.ApplyDeliveryState(DeliveryStateAccepted))
		assert.True(t, order.DriverAssigned)
		assert.Equal(t, OrderStatusPaid, order.Status)

		require.NoError(t, order.ApplyDeliveryState(DeliveryStateInTransit))
		assert.Equal(t, OrderStatusShipped, order.Status)
		for _, item := range order.Items {
			assert.True(t, item.Shipped)
		}
	})

	t.Run("courier delivery completes the order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.ApplyDeliveryState(DeliveryStateInTransit))
		order.ClearDomainEvents()

		require.NoError(t, order.ApplyDeliveryState(DeliveryStateDelivered))
		assert.Equal(t, OrderStatusDelivered, order.Status)
		assert.NotNil(t, order.DeliveredAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeOrderStatusChanged, events[0].EventType())
		assert.Equal(t, EventTypeOrderDelivered, events[1].EventType())
	})

	t.Run("rejects unknown delivery states", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.ApplyDeliveryState(DeliveryState("lost"))
		require.Error(t, err)
	})

	t.Run("rejects empty delivery request", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.AttachDeliveryRequest("", "")
		require.Error(t, err)
	})
}

func TestOrderCancellation(t *testing.T) {
	t.Run("pending order cancels as unpaid", func(t *testing.T) {
		order := newTestOrder(t)
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel())
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, DeliveryStateCancelled, order.DeliveryState)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*OrderCancelledEvent)
		require.True(t, ok)
		assert.False(t, event.WasPaid)
	})

	t.Run("paid order cancels with refund flag", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		order.ClearDomainEvents()

		require.NoError(t, order.Cancel())
		event := order.GetDomainEvents()[0].(*OrderCancelledEvent)
		assert.True(t, event.WasPaid)
	})

	t.Run("shipped order cannot cancel", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.ApplyDeliveryState(DeliveryStateInTransit))
		require.Error(t, order.Cancel())
	})
}

func TestOrderDispute(t *testing.T) {
	t.Run("delivered order can be disputed", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.ApplyDeliveryState(DeliveryStateDelivered))

		require.NoError(t, order.Dispute())
		assert.Equal(t, OrderStatusDisputed, order.Status)
	})

	t.Run("pending order cannot be disputed", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.Dispute())
	})
}

func TestCart(t *testing.T) {
	t.Run("adding the same listing merges quantities", func(t *testing.T) {
		cart, err := NewCart(uuid.New())
		require.NoError(t, err)

		listingID := uuid.New()
		require.NoError(t, cart.AddItem(listingID, 1))
		require.NoError(t, cart.AddItem(listingID, 2))

		assert.Equal(t, 1, cart.TotalItems())
		assert.Equal(t, 3, cart.Quantity(listingID))
	})

	t.Run("update quantity and remove", func(t *testing.T) {
		cart, _ := NewCart(uuid.New())
		listingID := uuid.New()
		require.NoError(t, cart.AddItem(listingID, 2))

		require.NoError(t, cart.UpdateQuantity(listingID, 5))
		assert.Equal(t, 5, cart.Quantity(listingID))

		require.NoError(t, cart.UpdateQuantity(listingID, 0))
		assert.True(t, cart.IsEmpty())
	})

	t.Run("removing a missing listing fails", func(t *testing.T) {
		cart, _ := NewCart(uuid.New())
		require.Error(t, cart.RemoveItem(uuid.New()))
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		cart, _ := NewCart(uuid.New())
		require.NoError(t, cart.AddItem(uuid.New(), 1))
		require.NoError(t, cart.AddItem(uuid.New(), 1))

		cart.Clear()
		assert.True(t, cart.IsEmpty())
	})

	t.Run("rejects invalid quantities", func(t *testing.T) {
		cart, _ := NewCart(uuid.New())
		require.Error(t, cart.AddItem(uuid.New(), 0))
		require.Error(t, cart.UpdateQuantity(uuid.New(), -1))
	})
}
