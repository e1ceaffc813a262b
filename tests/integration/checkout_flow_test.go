package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/baysoko/backend/internal/application/order"
	paymentapp "github.com/baysoko/backend/internal/application/payment"
	"github.com/baysoko/backend/internal/domain/order"
	"github.com/baysoko/backend/internal/domain/payment"
	"github.com/baysoko/backend/internal/infrastructure/cache"
	mpesa "github.com/baysoko/backend/internal/infrastructure/payment"
	"github.com/baysoko/backend/internal/infrastructure/persistence"
)

// TestCheckoutSettlementFlow walks the whole buyer journey: cart,
// checkout with an STK push, the asynchronous payment callback, and
// the escrow that holds the money until the buyer confirms receipt.
func TestCheckoutSettlementFlow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "achieng_a", "achieng@example.com")
	seller := seedUser(t, db, "otieno_b", "otieno@example.com")
	st := seedStore(t, db, seller.ID, "Otieno Electronics", "otieno-electronics")
	listing := seedListing(t, db, st.ID, seller.ID, "Solar Lantern 40W", "solar-lantern-40w", 1500, 5)

	cartRepo := persistence.NewGormCartRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	listingRepo := persistence.NewGormListingRepository(db)
	reservationRepo := persistence.NewGormStockReservationRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	escrowRepo := persistence.NewGormEscrowRepository(db)
	storeRepo := persistence.NewGormStoreRepository(db)

	gateway := mpesa.NewSimulatedGateway(20*time.Millisecond, zap.NewNop())

	cartService := orderapp.NewCartService(cartRepo, listingRepo, zap.NewNop())
	checkoutService := orderapp.NewCheckoutService(
		cartRepo, orderRepo, listingRepo, reservationRepo, paymentRepo, gateway, zap.NewNop())
	orderService := orderapp.NewOrderService(
		orderRepo, storeRepo, listingRepo, reservationRepo, paymentRepo, escrowRepo, nil, zap.NewNop())
	escrowService := paymentapp.NewEscrowService(escrowRepo, orderRepo, paymentRepo, zap.NewNop())
	callbackService := paymentapp.NewCallbackService(
		paymentRepo, gateway, cache.NewInMemoryIdempotencyStore(), orderService, nil, zap.NewNop())

	gateway.SetCallbackSink(func(cbCtx context.Context, payload []byte) {
		_, err := callbackService.HandleCallback(cbCtx, payload)
		assert.NoError(t, err)
	})

	// Two lanterns in the cart
	cartResp, err := cartService.AddToCart(ctx, buyer.ID, &orderapp.AddToCartRequest{
		ListingID: listing.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 2, cartResp.Items[0].Quantity)
	assert.True(t, cartResp.TotalPrice.Equal(listing.Price.Mul(decimal.NewFromInt(2))))

	resp, err := checkoutService.Checkout(ctx, buyer.ID, &orderapp.CheckoutRequest{
		FirstName: "Achieng",
		LastName:  "Atieno",
		Phone:     "0712345678",
		Address:   "Sofia Estate, House 12",
		City:      "Homa Bay",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.CheckoutRequestID)

	// Checkout reserves stock but does not decrement it
	fresh, err := listingRepo.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.Stock)

	// The cart is gone once the prompt went out
	cartResp, err = cartService.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cartResp.TotalItems)

	// The simulated customer confirms the push after its delay
	require.Eventually(t, func() bool {
		ord, err := orderRepo.FindByID(ctx, resp.OrderID)
		return err == nil && ord.Status == order.OrderStatusPaid
	}, 2*time.Second, 20*time.Millisecond, "order never settled")

	// Settlement decremented stock and opened the escrow
	fresh, err = listingRepo.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Stock)

	esc, err := escrowRepo.FindByOrder(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.EscrowStatusHeld, esc.Status)
	assert.True(t, esc.Amount.Equal(resp.TotalPrice))

	// Buyer confirms receipt, funds release to the seller
	escResp, err := escrowService.ConfirmDelivery(ctx, buyer.ID, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, string(payment.EscrowStatusReleased), escResp.Status)

	// Only the buyer can confirm
	_, err = escrowService.ConfirmDelivery(ctx, seller.ID, resp.OrderID)
	assert.Error(t, err)
}

// TestCheckoutInsufficientStock verifies a checkout cannot oversell
// past live stock minus outstanding reservations.
func TestCheckoutInsufficientStock(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "wanjiru_c", "wanjiru@example.com")
	rival := seedUser(t, db, "baraka_d", "baraka@example.com")
	seller := seedUser(t, db, "seller_e", "seller.e@example.com")
	st := seedStore(t, db, seller.ID, "Baraka Traders", "baraka-traders")
	listing := seedListing(t, db, st.ID, seller.ID, "Maize Sheller", "maize-sheller", 8000, 3)

	cartRepo := persistence.NewGormCartRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	listingRepo := persistence.NewGormListingRepository(db)
	reservationRepo := persistence.NewGormStockReservationRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)

	// A long delay keeps the rival's payment pending, so their
	// reservation stays live for the whole test.
	gateway := mpesa.NewSimulatedGateway(time.Minute, zap.NewNop())

	cartService := orderapp.NewCartService(cartRepo, listingRepo, zap.NewNop())
	checkoutService := orderapp.NewCheckoutService(
		cartRepo, orderRepo, listingRepo, reservationRepo, paymentRepo, gateway, zap.NewNop())

	_, err := cartService.AddToCart(ctx, rival.ID, &orderapp.AddToCartRequest{ListingID: listing.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = checkoutService.Checkout(ctx, rival.ID, &orderapp.CheckoutRequest{
		FirstName: "Baraka",
		Phone:     "0722000111",
		Address:   "Market Lane",
	})
	require.NoError(t, err)

	// Stock reads 3 but two are reserved; asking for 2 more must fail
	_, err = cartService.AddToCart(ctx, buyer.ID, &orderapp.AddToCartRequest{ListingID: listing.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = checkoutService.Checkout(ctx, buyer.ID, &orderapp.CheckoutRequest{
		FirstName: "Wanjiru",
		Phone:     "0733000222",
		Address:   "Pier Road",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}
