package repository

import (
	"context"
	"fmt"

	"heritage-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total_amount, checkout_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.UserID, order.Status, order.TotalAmount,
		order.CheckoutSessionID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("status", string(order.Status)).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity,
			item.UnitPrice, item.Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", items[i].OrderID.String()).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, user_id, status, total_amount, checkout_session_id, payment_intent_id, created_at, updated_at`

// GetBySessionID retrieves the order tied to a checkout session.
func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var o model.Order
	err := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE checkout_session_id = $1`, sessionID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CheckoutSessionID,
			&o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query order by session: %w", err)
	}
	return &o, nil
}

// MarkCompleted promotes a pending order to completed. The status guard in
// the WHERE clause is the idempotency barrier for duplicate webhook
// deliveries racing each other.
func (r *orderRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, paymentIntentID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, payment_intent_id = $3, updated_at = now()
		WHERE id = $1 AND status = $4`,
		orderID, model.OrderStatusCompleted, paymentIntentID, model.OrderStatusPending)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to complete order")
		return false, fmt.Errorf("failed to complete order: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ItemsByOrder retrieves an order's line items.
func (r *orderRepository) ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListByUser retrieves the user's orders, newest first, with their items
// and product snapshots.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var details []model.OrderDetail
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CheckoutSessionID,
			&o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		details = append(details, model.OrderDetail{
			ID:          o.ID,
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range details {
		items, err := r.itemDetails(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Items = items
	}

	return details, nil
}

func (r *orderRepository) itemDetails(ctx context.Context, orderID uuid.UUID) ([]model.OrderItemDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT oi.quantity, oi.unit_price, oi.subtotal,
		       p.id, p.name, p.description, p.price, p.category, p.seller_id,
		       p.image_urls, p.tags, p.is_active, p.stock_quantity, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY p.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order item details: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItemDetail
	for rows.Next() {
		var d model.OrderItemDetail
		p := &d.Product
		err := rows.Scan(&d.Quantity, &d.UnitPrice, &d.Subtotal,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.SellerID,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item detail: %w", err)
		}
		items = append(items, d)
	}

	return items, rows.Err()
}
