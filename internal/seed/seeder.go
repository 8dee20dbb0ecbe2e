package seed

import (
	"context"
	"fmt"

	"heritage-api/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Seeder applies a seed payload to the database. Each table is populated
// only when empty, so re-running a deployment never duplicates or clobbers
// catalog rows.
type Seeder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(pool *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{
		pool:   pool,
		logger: logger.With().Str("component", "seeder").Logger(),
	}
}

// Apply populates empty catalog tables from the payload.
func (s *Seeder) Apply(ctx context.Context, data *Data) error {
	if err := s.seedFigures(ctx, data.Figures); err != nil {
		return err
	}
	if err := s.seedEvents(ctx, data.Events); err != nil {
		return err
	}
	if err := s.seedProducts(ctx, data.Products); err != nil {
		return err
	}
	return nil
}

func (s *Seeder) tableEmpty(ctx context.Context, table string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", table)
	if err := s.pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return !exists, nil
}

func (s *Seeder) seedFigures(ctx context.Context, figures []model.HistoricalFigure) error {
	empty, err := s.tableEmpty(ctx, "historical_figures")
	if err != nil {
		return err
	}
	if !empty || len(figures) == 0 {
		s.logger.Debug().Msg("historical_figures already populated, skipping")
		return nil
	}

	for _, figure := range figures {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO historical_figures (name, birth_year, death_year, profession, achievements, biography, image_url, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			figure.Name, figure.BirthYear, figure.DeathYear, figure.Profession,
			figure.Achievements, figure.Biography, figure.ImageURL, figure.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to seed figure %q: %w", figure.Name, err)
		}
	}

	s.logger.Info().Int("count", len(figures)).Msg("historical figures seeded")
	return nil
}

func (s *Seeder) seedEvents(ctx context.Context, events []model.HistoricalEvent) error {
	empty, err := s.tableEmpty(ctx, "historical_events")
	if err != nil {
		return err
	}
	if !empty || len(events) == 0 {
		s.logger.Debug().Msg("historical_events already populated, skipping")
		return nil
	}

	for _, event := range events {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO historical_events (title, year, description, significance, location, key_figures)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			event.Title, event.Year, event.Description, event.Significance,
			event.Location, event.KeyFigures,
		)
		if err != nil {
			return fmt.Errorf("failed to seed event %q: %w", event.Title, err)
		}
	}

	s.logger.Info().Int("count", len(events)).Msg("historical events seeded")
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, products []Product) error {
	empty, err := s.tableEmpty(ctx, "products")
	if err != nil {
		return err
	}
	if !empty || len(products) == 0 {
		s.logger.Debug().Msg("products already populated, skipping")
		return nil
	}

	for _, product := range products {
		price, err := decimal.NewFromString(product.Price)
		if err != nil {
			return fmt.Errorf("invalid price %q for product %q: %w", product.Price, product.Name, err)
		}

		_, err = s.pool.Exec(ctx, `
			INSERT INTO products (name, description, price, category, image_urls, tags, is_active, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`,
			product.Name, product.Description, price, product.Category,
			product.ImageURLs, product.Tags, product.StockQuantity,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}
	}

	s.logger.Info().Int("count", len(products)).Msg("products seeded")
	return nil
}
