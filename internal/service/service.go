package service

import (
	"context"

	"heritage-api/internal/model"
)

// CartService owns per-user cart mutations. Stock checks here are advisory:
// nothing is reserved until order time, and every quantity is re-validated
// under a row lock when an order is placed.
type CartService interface {
	// List returns the user's cart with read-time subtotals.
	List(ctx context.Context, userID int64) ([]model.CartLine, error)

	// Add merges qty of a product into the user's cart.
	Add(ctx context.Context, userID, productID int64, qty int) (*model.CartLine, error)

	// Update overwrites a cart item's quantity. A quantity of zero or below
	// removes the item; removed reports that outcome as a success, not an
	// error.
	Update(ctx context.Context, userID, itemID int64, qty int) (line *model.CartLine, removed bool, err error)

	// Remove deletes a cart item.
	Remove(ctx context.Context, userID, itemID int64) error
}

// OrderService converts cart snapshots into immutable orders.
type OrderService interface {
	// PlaceOrder atomically creates a completed order from the user's cart,
	// decrementing stock and clearing the cart. No partial order is ever
	// created.
	PlaceOrder(ctx context.Context, userID int64) (*model.OrderDetail, error)

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID int64) ([]model.OrderDetail, error)
}

// CheckoutService runs the deferred two-phase purchase flow against the
// payment provider.
type CheckoutService interface {
	// BeginCheckout validates the cart, opens a payment session and records
	// a pending order tied to it. Stock is not decremented and the cart is
	// not cleared until the payment webhook confirms.
	BeginCheckout(ctx context.Context, user *model.User) (*model.CheckoutSessionResponse, error)

	// Reconcile applies a verified payment event exactly once. Duplicate
	// and unknown-session events are absorbed as successful no-ops.
	Reconcile(ctx context.Context, event *ReconcileEvent) error

	// OversoldUnits reports the cumulative stock shortfall absorbed by
	// reconciliation clamping.
	OversoldUnits() int64
}

// ReconcileEvent is a verified payment notification handed to the
// reconciler.
type ReconcileEvent struct {
	Type            string
	SessionID       string
	PaymentIntentID string
}

// ProductService serves marketplace reads and the single-unit quick buy.
type ProductService interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Categories(ctx context.Context) ([]string, error)

	// Purchase atomically sells one unit of a product and returns the
	// remaining stock.
	Purchase(ctx context.Context, productID int64) (int, error)
}

// CatalogService serves the read-only historical catalog.
type CatalogService interface {
	ListFigures(ctx context.Context) ([]model.HistoricalFigure, error)
	GetFigure(ctx context.Context, id int64) (*model.HistoricalFigure, error)
	ListEvents(ctx context.Context) ([]model.HistoricalEvent, error)
	GetEvent(ctx context.Context, id int64) (*model.HistoricalEvent, error)
	Categories(ctx context.Context) ([]string, error)
}

// AuthService handles registration, login and plan selection.
type AuthService interface {
	// Register creates an account and returns a bearer token for it.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error)

	// Login verifies credentials and returns a bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)

	// Plans returns the static subscription plan list.
	Plans() []model.SubscriptionPlan

	// SelectPlan switches the user's subscription tier.
	SelectPlan(ctx context.Context, userID, planID int64) (*model.SelectPlanResponse, error)
}
