package repository

import (
	"context"
	"fmt"

	"heritage-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, category, seller_id,
	image_urls, tags, is_active, stock_quantity, created_at, updated_at`

// productRepository implements ProductRepository and InventoryRepository
// over the same products table: plain reads for display, locked rows for
// stock mutation.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) *productRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.SellerID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.StockQuantity,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List retrieves active products with optional category/search filters.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category ILIKE $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single active product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// Categories lists the distinct categories of active products.
func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE is_active AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// BeginTx starts the transaction that scopes a lock-validate-mutate sequence.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// LockStock locks the given product rows FOR UPDATE, in ascending id order
// so concurrent multi-product transactions cannot deadlock, and returns
// them keyed by id.
func (r *productRepository) LockStock(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to lock product rows")
		return nil, fmt.Errorf("failed to lock product rows: %w", err)
	}
	defer rows.Close()

	locked := make(map[int64]model.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product: %w", err)
		}
		locked[p.ID] = *p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked products: %w", err)
	}

	return locked, nil
}

// CommitDecrement decrements stock, guarded so it can never go negative.
// The caller is expected to have validated against a locked row; a zero
// rows-affected result still maps to insufficient stock as a last line of
// defence.
func (r *productRepository) CommitDecrement(ctx context.Context, tx pgx.Tx, productID int64, qty int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity - $2, updated_at = now()
		 WHERE id = $1 AND stock_quantity >= $2`,
		productID, qty)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &model.InsufficientStockError{ProductID: productID}
	}

	return nil
}

// ClampedDecrement decrements stock with a floor of zero, returning how many
// units could not be covered.
func (r *productRepository) ClampedDecrement(ctx context.Context, tx pgx.Tx, productID int64, qty int) (int, error) {
	var stock int
	err := tx.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			// The product vanished from the catalog; the whole quantity is
			// an oversell.
			return qty, nil
		}
		return 0, fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	short := 0
	if qty > stock {
		short = qty - stock
	}

	_, err = tx.Exec(ctx,
		`UPDATE products
		 SET stock_quantity = GREATEST(stock_quantity - $2, 0), updated_at = now()
		 WHERE id = $1`,
		productID, qty)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return short, nil
}
