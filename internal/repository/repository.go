package repository

import (
	"context"

	"heritage-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines read access to marketplace listings. Stock
// values returned here are unlocked, display-only snapshots; any read that
// gates a mutation goes through InventoryRepository inside a transaction.
type ProductRepository interface {
	// List retrieves active products, optionally filtered by category and
	// free-text search over name/description.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single active product, or nil if absent/inactive.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Categories lists the distinct categories of active products.
	Categories(ctx context.Context) ([]string, error)
}

// InventoryRepository is the inventory ledger: every stock mutation goes
// through a row lock taken here, so concurrent operations on the same
// product serialize.
type InventoryRepository interface {
	// BeginTx starts the transaction that scopes a lock-validate-mutate
	// sequence.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// LockStock locks the given product rows (sorted by id to keep lock
	// acquisition order stable) and returns them keyed by id. Missing ids
	// are simply absent from the map.
	LockStock(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error)

	// CommitDecrement decrements stock_quantity by qty, refusing to go
	// below zero. Returns *model.InsufficientStockError if the conditional
	// update matches no row.
	CommitDecrement(ctx context.Context, tx pgx.Tx, productID int64, qty int) error

	// ClampedDecrement decrements stock_quantity with a floor of zero and
	// returns the shortfall (units that could not be decremented). Used by
	// webhook reconciliation, where the sale already happened externally.
	ClampedDecrement(ctx context.Context, tx pgx.Tx, productID int64, qty int) (int, error)
}

// CartRepository defines cart row access. A cart row's quantity is always
// positive; deletions happen instead of zero/negative updates.
type CartRepository interface {
	// ListLines retrieves the user's cart joined with product data.
	ListLines(ctx context.Context, userID int64) ([]model.CartLine, error)

	// GetByID retrieves a cart item scoped to its owner, or nil if absent.
	GetByID(ctx context.Context, userID, itemID int64) (*model.CartItem, error)

	// GetByProduct retrieves the user's cart row for a product, or nil.
	GetByProduct(ctx context.Context, userID, productID int64) (*model.CartItem, error)

	// AddQuantity merges qty into the (user, product) row, creating it if
	// needed, and returns the resulting row.
	AddQuantity(ctx context.Context, userID, productID int64, qty int) (*model.CartItem, error)

	// SetQuantity overwrites a row's quantity.
	SetQuantity(ctx context.Context, itemID int64, qty int) (*model.CartItem, error)

	// Delete removes a cart row.
	Delete(ctx context.Context, itemID int64) error

	// ClearUser removes all of the user's cart rows within a transaction.
	ClearUser(ctx context.Context, tx pgx.Tx, userID int64) error
}

// OrderRepository defines order/line-item persistence. All writes happen
// inside a caller-owned transaction.
type OrderRepository interface {
	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetBySessionID retrieves the order tied to a checkout session, or nil.
	GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error)

	// MarkCompleted promotes a pending order to completed and records the
	// payment confirmation id. Returns false when the order was not pending,
	// which is how duplicate webhook deliveries are absorbed.
	MarkCompleted(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, paymentIntentID string) (bool, error)

	// ItemsByOrder retrieves an order's line items.
	ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)

	// ListByUser retrieves the user's orders, newest first, with items.
	ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error)
}

// UserRepository defines account persistence.
type UserRepository interface {
	// Create inserts a user and fills in the generated id.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user, or nil if absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByEmail retrieves a user by email, or nil if absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByUsername retrieves a user by username, or nil if absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// UpdateSubscriptionTier sets the user's subscription tier.
	UpdateSubscriptionTier(ctx context.Context, userID int64, tier string) error
}

// CatalogRepository defines read-only access to the historical catalog.
type CatalogRepository interface {
	ListFigures(ctx context.Context) ([]model.HistoricalFigure, error)
	GetFigure(ctx context.Context, id int64) (*model.HistoricalFigure, error)
	ListEvents(ctx context.Context) ([]model.HistoricalEvent, error)
	GetEvent(ctx context.Context, id int64) (*model.HistoricalEvent, error)

	// FigureCategories lists the distinct non-empty figure categories.
	FigureCategories(ctx context.Context) ([]string, error)
}
