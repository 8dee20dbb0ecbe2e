package service

import (
	"context"
	"fmt"

	"heritage-api/internal/model"
	"heritage-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// List returns the user's cart with read-time subtotals.
func (s *cartService) List(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return lines, nil
}

func cartLine(item *model.CartItem, product *model.Product) *model.CartLine {
	return &model.CartLine{
		ID:       item.ID,
		Quantity: item.Quantity,
		Product:  *product,
		Subtotal: product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}

// Add merges qty of a product into the user's cart. The stock check is
// advisory (nothing is reserved); the order path re-validates under lock.
func (s *cartService) Add(ctx context.Context, userID, productID int64, qty int) (*model.CartLine, error) {
	if qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	existing := 0
	if item, err := s.cartRepo.GetByProduct(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	} else if item != nil {
		existing = item.Quantity
	}

	if product.StockQuantity < existing+qty {
		s.logger.Debug().
			Int64("product_id", productID).
			Int("requested", existing+qty).
			Int("available", product.StockQuantity).
			Msg("add to cart exceeds stock")
		return nil, &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
		}
	}

	item, err := s.cartRepo.AddQuantity(ctx, userID, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return cartLine(item, product), nil
}

// Update overwrites a cart item's quantity; zero or below removes the row
// and reports the removal as a successful outcome.
func (s *cartService) Update(ctx context.Context, userID, itemID int64, qty int) (*model.CartLine, bool, error) {
	item, err := s.cartRepo.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return nil, false, model.ErrCartItemNotFound
	}

	if qty <= 0 {
		if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
			return nil, false, fmt.Errorf("failed to remove cart item: %w", err)
		}
		s.logger.Debug().Int64("item_id", itemID).Msg("cart item removed via zero-quantity update")
		return nil, true, nil
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, false, model.ErrProductNotFound
	}

	if product.StockQuantity < qty {
		return nil, false, &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
		}
	}

	updated, err := s.cartRepo.SetQuantity(ctx, item.ID, qty)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update cart item: %w", err)
	}
	if updated == nil {
		return nil, false, model.ErrCartItemNotFound
	}

	return cartLine(updated, product), false, nil
}

// Remove deletes a cart item.
func (s *cartService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.cartRepo.GetByID(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return model.ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}
