package service

import (
	"context"

	"heritage-api/internal/model"
	"heritage-api/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService. Pure pass-through reads; the
// catalog is immutable after seeding.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) ListFigures(ctx context.Context) ([]model.HistoricalFigure, error) {
	return s.catalogRepo.ListFigures(ctx)
}

func (s *catalogService) GetFigure(ctx context.Context, id int64) (*model.HistoricalFigure, error) {
	return s.catalogRepo.GetFigure(ctx, id)
}

func (s *catalogService) ListEvents(ctx context.Context) ([]model.HistoricalEvent, error) {
	return s.catalogRepo.ListEvents(ctx)
}

func (s *catalogService) GetEvent(ctx context.Context, id int64) (*model.HistoricalEvent, error) {
	return s.catalogRepo.GetEvent(ctx, id)
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return s.catalogRepo.FigureCategories(ctx)
}
