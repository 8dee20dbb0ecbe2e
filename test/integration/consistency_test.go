package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"heritage-api/internal/model"
	"heritage-api/internal/repository"
	"heritage-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(testDB *TestDB, provider *stubProvider) (service.CartService, service.OrderService, service.CheckoutService, service.ProductService) {
	logger := zerolog.Nop()
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, productRepo, provider,
		"http://localhost:3000", logger)
	productService := service.NewProductService(productRepo, productRepo, logger)

	return cartService, orderService, checkoutService, productService
}

// Eight users race for a single unit: exactly one order may succeed and
// stock must end at zero, never below.
func TestConcurrentOrders_LastUnit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	_, orderService, _, _ := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Limited Coin", "45.00", 1)

	const contenders = 8
	userIDs := make([]int64, contenders)
	for i := range userIDs {
		userIDs[i] = SeedUser(t, testDB.Pool, fmt.Sprintf("buyer%d", i))
		SeedCartItem(t, testDB.Pool, userIDs[i], productID, 1)
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := range userIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orderService.PlaceOrder(ctx, userIDs[i])
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *model.InsufficientStockError
		require.True(t, errors.As(err, &stockErr), "unexpected error: %v", err)
	}

	assert.Equal(t, 1, successes, "exactly one order may claim the last unit")
	assert.Equal(t, 0, StockOf(t, testDB.Pool, productID))
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "orders"))
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "order_items"))
}

// A multi-product order where one line is short must leave no trace: no
// order rows, untouched stock, cart intact.
func TestOrder_NoPartialWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	_, orderService, _, _ := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	plentyID := SeedProduct(t, testDB.Pool, "Portrait Print", "25.00", 50)
	scarceID := SeedProduct(t, testDB.Pool, "Limited Coin", "45.00", 2)
	userID := SeedUser(t, testDB.Pool, "harriet")
	SeedCartItem(t, testDB.Pool, userID, plentyID, 3)
	SeedCartItem(t, testDB.Pool, userID, scarceID, 5) // more than stock

	_, err := orderService.PlaceOrder(ctx, userID)

	var stockErr *model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, scarceID, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 0, CountRows(t, testDB.Pool, "orders"))
	assert.Equal(t, 0, CountRows(t, testDB.Pool, "order_items"))
	assert.Equal(t, 50, StockOf(t, testDB.Pool, plentyID))
	assert.Equal(t, 2, StockOf(t, testDB.Pool, scarceID))
	assert.Equal(t, 2, CountRows(t, testDB.Pool, "cart_items"))
}

// Concurrent single-unit quick buys must sell exactly the available stock.
func TestConcurrentPurchase_SellsExactlyStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	_, _, _, productService := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Story Map", "18.50", 5)

	const buyers = 12
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = productService.Purchase(ctx, productID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}

	assert.Equal(t, 5, successes)
	assert.Equal(t, 0, StockOf(t, testDB.Pool, productID))
}

// BeginCheckout records a pending order but reserves nothing.
func TestCheckout_PendingHoldsNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	provider := &stubProvider{nextID: "cs_itest_1"}
	_, _, checkoutService, _ := newServices(testDB, provider)
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Anthology", "32.00", 10)
	userID := SeedUser(t, testDB.Pool, "katherine")
	SeedCartItem(t, testDB.Pool, userID, productID, 2)

	resp, err := checkoutService.BeginCheckout(ctx, &model.User{ID: userID, Email: "katherine@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "cs_itest_1", resp.SessionID)

	// Pending order exists, but stock and cart are untouched.
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "orders"))
	assert.Equal(t, 10, StockOf(t, testDB.Pool, productID))
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "cart_items"))

	var status string
	require.NoError(t, testDB.Pool.QueryRow(ctx,
		"SELECT status FROM orders WHERE checkout_session_id = $1", resp.SessionID,
	).Scan(&status))
	assert.Equal(t, "pending", status)
}

// The webhook settles a pending order exactly once, no matter how many
// times the provider delivers it.
func TestReconcile_DuplicateDeliveries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	provider := &stubProvider{nextID: "cs_itest_2"}
	_, _, checkoutService, _ := newServices(testDB, provider)
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Tour Guide", "14.99", 10)
	userID := SeedUser(t, testDB.Pool, "thurgood")
	SeedCartItem(t, testDB.Pool, userID, productID, 3)

	_, err := checkoutService.BeginCheckout(ctx, &model.User{ID: userID, Email: "thurgood@example.com"})
	require.NoError(t, err)

	event := &service.ReconcileEvent{
		Type:            "checkout.session.completed",
		SessionID:       "cs_itest_2",
		PaymentIntentID: "pi_itest_2",
	}

	const deliveries = 6
	var wg sync.WaitGroup
	errs := make([]error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = checkoutService.Reconcile(ctx, event)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err, "duplicate deliveries are successful no-ops")
	}

	// Stock was decremented exactly once and the cart cleared.
	assert.Equal(t, 7, StockOf(t, testDB.Pool, productID))
	assert.Equal(t, 0, CountRows(t, testDB.Pool, "cart_items"))

	var status string
	require.NoError(t, testDB.Pool.QueryRow(ctx,
		"SELECT status FROM orders WHERE checkout_session_id = $1", "cs_itest_2",
	).Scan(&status))
	assert.Equal(t, "completed", status)
}

// An unknown session is absorbed without touching anything.
func TestReconcile_UnknownSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	_, _, checkoutService, _ := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	err := checkoutService.Reconcile(ctx, &service.ReconcileEvent{
		Type:      "checkout.session.completed",
		SessionID: "cs_never_created",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, CountRows(t, testDB.Pool, "orders"))
}

// Stock drained between checkout and webhook is clamped at zero and the
// shortfall counted, never driven negative.
func TestReconcile_OversellClampsAtZero(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	provider := &stubProvider{nextID: "cs_itest_3"}
	_, _, checkoutService, _ := newServices(testDB, provider)
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Limited Coin", "45.00", 3)
	userID := SeedUser(t, testDB.Pool, "madam")
	SeedCartItem(t, testDB.Pool, userID, productID, 3)

	_, err := checkoutService.BeginCheckout(ctx, &model.User{ID: userID, Email: "madam@example.com"})
	require.NoError(t, err)

	// A direct sale drains most of the stock while payment is in flight.
	_, err = testDB.Pool.Exec(ctx,
		"UPDATE products SET stock_quantity = 1 WHERE id = $1", productID)
	require.NoError(t, err)

	require.NoError(t, checkoutService.Reconcile(ctx, &service.ReconcileEvent{
		Type:            "checkout.session.completed",
		SessionID:       "cs_itest_3",
		PaymentIntentID: "pi_itest_3",
	}))

	assert.Equal(t, 0, StockOf(t, testDB.Pool, productID))
	assert.Equal(t, int64(2), checkoutService.OversoldUnits())
}

// Cart round trip: add, merge, overwrite, update to zero removes.
func TestCart_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	cartService, _, _, _ := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Portrait Print", "25.00", 10)
	userID := SeedUser(t, testDB.Pool, "frederick")

	line, err := cartService.Add(ctx, userID, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	// Adding again merges quantities on the same row.
	line, err = cartService.Add(ctx, userID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 1, CountRows(t, testDB.Pool, "cart_items"))

	// Update overwrites.
	updated, removed, err := cartService.Update(ctx, userID, line.ID, 4)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 4, updated.Quantity)

	// Update to zero removes the row and reports success.
	updated, removed, err = cartService.Update(ctx, userID, line.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, updated)
	assert.Equal(t, 0, CountRows(t, testDB.Pool, "cart_items"))
}

// Cart adds are advisory: two users can both hold the last unit in their
// carts, and the conflict resolves at order time.
func TestCart_AdvisoryStockCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	cartService, orderService, _, _ := newServices(testDB, &stubProvider{})
	ctx := context.Background()

	productID := SeedProduct(t, testDB.Pool, "Limited Coin", "45.00", 1)
	firstID := SeedUser(t, testDB.Pool, "first")
	secondID := SeedUser(t, testDB.Pool, "second")

	_, err := cartService.Add(ctx, firstID, productID, 1)
	require.NoError(t, err)
	_, err = cartService.Add(ctx, secondID, productID, 1)
	require.NoError(t, err, "both carts may hold the last unit")

	_, err = orderService.PlaceOrder(ctx, firstID)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(ctx, secondID)
	var stockErr *model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "the race resolves at order time")
	assert.Equal(t, 0, StockOf(t, testDB.Pool, productID))
}
