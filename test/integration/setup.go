package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"heritage-api/internal/database"
	"heritage-api/internal/payment"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all mutable data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "products", "users"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (email, username, hashed_password)
		VALUES ($1, $2, 'x') RETURNING id`,
		username+"@example.com", username,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}

// SeedProduct inserts an active product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name, price string, stock int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO products (name, description, price, category, is_active, stock_quantity)
		VALUES ($1, '', $2, 'Art', TRUE, $3) RETURNING id`,
		name, decimal.RequireFromString(price), stock,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return id
}

// SeedCartItem puts a product in a user's cart.
func SeedCartItem(t *testing.T, pool *pgxpool.Pool, userID, productID int64, qty int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)`,
		userID, productID, qty,
	)
	if err != nil {
		t.Fatalf("failed to seed cart item: %v", err)
	}
}

// StockOf reads a product's current stock.
func StockOf(t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		"SELECT stock_quantity FROM products WHERE id = $1", productID,
	).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}

// CountRows counts the rows of a table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(),
		fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

// stubProvider fakes the payment processor for checkout flows. Sessions get
// deterministic ids so tests can drive the webhook path.
type stubProvider struct {
	nextID string
}

func (p *stubProvider) CreateSession(_ context.Context, _ payment.SessionRequest) (*payment.Session, error) {
	return &payment.Session{ID: p.nextID, URL: "https://checkout.test/" + p.nextID}, nil
}

func (p *stubProvider) VerifyWebhook(_ []byte, _ string) (*payment.Event, error) {
	return &payment.Event{
		Type:      payment.EventCheckoutCompleted,
		SessionID: p.nextID,
	}, nil
}
