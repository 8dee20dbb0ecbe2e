package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"heritage-api/internal/model"
	"heritage-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	inventory repository.InventoryRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventory repository.InventoryRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		inventory: inventory,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// sortedProductIDs returns the distinct product ids of a cart in ascending
// order, which is also the lock acquisition order.
func sortedProductIDs(lines []model.CartLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Product.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// buildOrderItems freezes unit prices and subtotals from the locked product
// rows, validating each requested quantity against locked stock. It returns
// the first validation failure, in which case no order may be created.
func buildOrderItems(orderID uuid.UUID, lines []model.CartLine, locked map[int64]model.Product) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		product, ok := locked[line.Product.ID]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, model.ErrProductNotFound
		}
		if product.StockQuantity < line.Quantity {
			return nil, decimal.Zero, &model.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
			}
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	return items, total, nil
}

// PlaceOrder converts the user's cart into a completed order in one
// transaction: lock products, re-validate quantities against locked stock,
// insert the order and its items with frozen prices, decrement stock and
// clear the cart. Any failure rolls the whole thing back.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64) (*model.OrderDetail, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	tx, err := s.inventory.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	locked, err := s.inventory.LockStock(ctx, tx, sortedProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	now := time.Now()
	order := &model.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    model.OrderStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items, total, err := buildOrderItems(order.ID, lines, locked)
	if err != nil {
		return nil, err
	}
	order.TotalAmount = total

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	for _, item := range items {
		if err = s.inventory.CommitDecrement(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err = s.cartRepo.ClearUser(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", userID).
		Str("total", total.String()).
		Int("items", len(items)).
		Msg("order placed")

	detail := &model.OrderDetail{
		ID:          order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       make([]model.OrderItemDetail, 0, len(items)),
	}
	for _, item := range items {
		detail.Items = append(detail.Items, model.OrderItemDetail{
			Product:   locked[item.ProductID],
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	return detail, nil
}

// ListOrders returns the user's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
