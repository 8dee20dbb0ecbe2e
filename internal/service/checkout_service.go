package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"heritage-api/internal/model"
	"heritage-api/internal/payment"
	"heritage-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var centsPerUnit = decimal.NewFromInt(100)

// checkoutService implements CheckoutService. Phase A reserves nothing:
// between session creation and webhook arrival stock is not held, and
// reconciliation absorbs any resulting shortfall via clamping while
// counting every oversold unit.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	inventory   repository.InventoryRepository
	provider    payment.Provider
	frontendURL string
	logger      zerolog.Logger

	oversold atomic.Int64
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventory repository.InventoryRepository,
	provider payment.Provider,
	frontendURL string,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		inventory:   inventory,
		provider:    provider,
		frontendURL: frontendURL,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// BeginCheckout validates the cart, opens a payment session and records a
// pending order tied to it. The provider call happens before the database
// transaction; it must never run inside a stock lock.
func (s *checkoutService) BeginCheckout(ctx context.Context, user *model.User) (*model.CheckoutSessionResponse, error) {
	lines, err := s.cartRepo.ListLines(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	// Advisory validation, same shape as order placement step 2 but without
	// a lock: the deferred flow decrements nothing until reconciliation.
	total := decimal.Zero
	lineItems := make([]payment.LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Product.StockQuantity < line.Quantity {
			return nil, &model.InsufficientStockError{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Available:   line.Product.StockQuantity,
			}
		}
		total = total.Add(line.Subtotal)
		lineItems = append(lineItems, payment.LineItem{
			Name:        line.Product.Name,
			Description: line.Product.Description,
			UnitAmount:  line.Product.Price.Mul(centsPerUnit).IntPart(),
			Quantity:    int64(line.Quantity),
		})
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionRequest{
		LineItems:     lineItems,
		SuccessURL:    s.frontendURL + "?checkout=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "?checkout=cancelled",
		CustomerEmail: user.Email,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.inventory.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:                uuid.New(),
		UserID:            user.ID,
		Status:            model.OrderStatusPending,
		TotalAmount:       total,
		CheckoutSessionID: &session.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Subtotal:  line.Subtotal,
		})
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}

	// Cart stays intact and stock stays untouched: the user may abandon
	// checkout, and only the webhook settles the order.
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", session.ID).
		Int64("user_id", user.ID).
		Msg("checkout session created")

	return &model.CheckoutSessionResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

// Reconcile applies a verified payment event exactly once. Webhook delivery
// is at-least-once, so unknown sessions and already-completed orders must
// come back as successful no-ops or the provider will retry forever.
func (s *checkoutService) Reconcile(ctx context.Context, event *ReconcileEvent) error {
	if event.Type != payment.EventCheckoutCompleted {
		s.logger.Debug().Str("type", event.Type).Msg("ignoring webhook event type")
		return nil
	}

	order, err := s.orderRepo.GetBySessionID(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("failed to look up session order: %w", err)
	}
	if order == nil {
		// Possibly a foreign or long-expired session; not our problem.
		s.logger.Info().Str("session_id", event.SessionID).Msg("webhook for unknown session ignored")
		return nil
	}
	if order.Status == model.OrderStatusCompleted {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("duplicate webhook delivery absorbed")
		return nil
	}

	items, err := s.orderRepo.ItemsByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	tx, err := s.inventory.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile payment: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	completed, err := s.orderRepo.MarkCompleted(ctx, tx, order.ID, event.PaymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to reconcile payment: %w", err)
	}
	if !completed {
		// A concurrent delivery won the race; ours is a no-op.
		_ = tx.Rollback(ctx)
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("order already completed by concurrent delivery")
		return nil
	}

	for _, item := range items {
		var short int
		short, err = s.inventory.ClampedDecrement(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to reconcile payment: %w", err)
		}
		if short > 0 {
			s.oversold.Add(int64(short))
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Int64("product_id", item.ProductID).
				Int("ordered", item.Quantity).
				Int("oversold", short).
				Msg("stock oversold during deferred checkout")
		}
	}

	if err = s.cartRepo.ClearUser(ctx, tx, order.UserID); err != nil {
		return fmt.Errorf("failed to reconcile payment: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to reconcile payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", event.SessionID).
		Msg("payment reconciled")

	return nil
}

// OversoldUnits reports the cumulative stock shortfall absorbed by
// reconciliation clamping since process start.
func (s *checkoutService) OversoldUnits() int64 {
	return s.oversold.Load()
}
