package repository

import (
	"context"
	"fmt"

	"heritage-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ListLines retrieves the user's cart joined with product data, computing
// each line subtotal at read time.
func (r *cartRepository) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.category, p.seller_id,
		       p.image_urls, p.tags, p.is_active, p.stock_quantity, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		p := &line.Product
		err := rows.Scan(&line.ID, &line.Quantity,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.SellerID,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		line.Subtotal = p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByID retrieves a cart item scoped to its owner.
func (r *cartRepository) GetByID(ctx context.Context, userID, itemID int64) (*model.CartItem, error) {
	item, err := scanCartItem(r.pool.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return item, nil
}

// GetByProduct retrieves the user's cart row for a product.
func (r *cartRepository) GetByProduct(ctx context.Context, userID, productID int64) (*model.CartItem, error) {
	item, err := scanCartItem(r.pool.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return item, nil
}

// AddQuantity merges qty into the (user, product) row. The summation happens
// in SQL so concurrent adds cannot lose increments.
func (r *cartRepository) AddQuantity(ctx context.Context, userID, productID int64, qty int) (*model.CartItem, error) {
	item, err := scanCartItem(r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = now()
		RETURNING `+cartItemColumns,
		userID, productID, qty))
	if err != nil {
		r.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("product_id", productID).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return item, nil
}

// SetQuantity overwrites a row's quantity.
func (r *cartRepository) SetQuantity(ctx context.Context, itemID int64, qty int) (*model.CartItem, error) {
	item, err := scanCartItem(r.pool.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+cartItemColumns,
		itemID, qty))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

// Delete removes a cart row.
func (r *cartRepository) Delete(ctx context.Context, itemID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ClearUser removes all of the user's cart rows within a transaction.
func (r *cartRepository) ClearUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
