package service

import (
	"context"
	"fmt"

	"heritage-api/internal/model"
	"heritage-api/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	inventory   repository.InventoryRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	inventory repository.InventoryRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		inventory:   inventory,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// Purchase sells exactly one unit under a row lock. Concurrent calls on the
// last unit serialize; exactly one wins.
func (s *productService) Purchase(ctx context.Context, productID int64) (remaining int, err error) {
	tx, err := s.inventory.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purchase: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.inventory.LockStock(ctx, tx, []int64{productID})
	if err != nil {
		return 0, fmt.Errorf("failed to purchase: %w", err)
	}

	product, ok := locked[productID]
	if !ok || !product.IsActive {
		return 0, model.ErrProductNotFound
	}
	if product.StockQuantity <= 0 {
		return 0, &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   0,
		}
	}

	if err = s.inventory.CommitDecrement(ctx, tx, productID, 1); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to purchase: %w", err)
	}

	s.logger.Info().
		Int64("product_id", productID).
		Int("remaining", product.StockQuantity-1).
		Msg("quick purchase completed")

	return product.StockQuantity - 1, nil
}
