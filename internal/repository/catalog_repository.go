package repository

import (
	"context"
	"fmt"

	"heritage-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

const figureColumns = `id, name, birth_year, death_year, profession, achievements, biography, image_url, category`

func scanFigure(row pgx.Row) (*model.HistoricalFigure, error) {
	var f model.HistoricalFigure
	err := row.Scan(&f.ID, &f.Name, &f.BirthYear, &f.DeathYear, &f.Profession,
		&f.Achievements, &f.Biography, &f.ImageURL, &f.Category)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *catalogRepository) ListFigures(ctx context.Context) ([]model.HistoricalFigure, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+figureColumns+` FROM historical_figures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query figures: %w", err)
	}
	defer rows.Close()

	var figures []model.HistoricalFigure
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan figure: %w", err)
		}
		figures = append(figures, *f)
	}

	return figures, rows.Err()
}

func (r *catalogRepository) GetFigure(ctx context.Context, id int64) (*model.HistoricalFigure, error) {
	f, err := scanFigure(r.pool.QueryRow(ctx,
		`SELECT `+figureColumns+` FROM historical_figures WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query figure: %w", err)
	}
	return f, nil
}

const eventColumns = `id, title, year, description, significance, location, key_figures`

func scanEvent(row pgx.Row) (*model.HistoricalEvent, error) {
	var e model.HistoricalEvent
	err := row.Scan(&e.ID, &e.Title, &e.Year, &e.Description, &e.Significance,
		&e.Location, &e.KeyFigures)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *catalogRepository) ListEvents(ctx context.Context) ([]model.HistoricalEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM historical_events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.HistoricalEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

func (r *catalogRepository) GetEvent(ctx context.Context, id int64) (*model.HistoricalEvent, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM historical_events WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return e, nil
}

func (r *catalogRepository) FigureCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM historical_figures WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query figure categories: %w", err)
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
