package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// migrations are applied in order at startup. Idempotent DDL only; there is
// no versioning table because every statement is IF NOT EXISTS.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		full_name TEXT,
		subscription_tier TEXT NOT NULL DEFAULT 'free',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS historical_figures (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		birth_year INT NOT NULL,
		death_year INT,
		profession TEXT NOT NULL DEFAULT '',
		achievements TEXT[] NOT NULL DEFAULT '{}',
		biography TEXT NOT NULL DEFAULT '',
		image_url TEXT,
		category TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS historical_events (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		year INT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		significance TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		key_figures TEXT[] NOT NULL DEFAULT '{}'
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL DEFAULT '',
		seller_id BIGINT REFERENCES users(id),
		image_urls TEXT[] NOT NULL DEFAULT '{}',
		tags TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'pending',
		total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		checkout_session_id TEXT,
		payment_intent_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS orders_checkout_session_id_idx
		ON orders (checkout_session_id) WHERE checkout_session_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS cart_items_user_id_idx ON cart_items (user_id)`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	logger.Info().Int("statements", len(migrations)).Msg("schema migration complete")
	return nil
}
