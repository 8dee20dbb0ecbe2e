package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heritage-api/internal/auth"
	"heritage-api/internal/chat"
	"heritage-api/internal/config"
	"heritage-api/internal/database"
	"heritage-api/internal/handler"
	"heritage-api/internal/model"
	"heritage-api/internal/payment"
	"heritage-api/internal/repository"
	"heritage-api/internal/router"
	"heritage-api/internal/seed"
	"heritage-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting heritage API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Seed the catalog on a fresh database
	var seedLoader seed.Loader
	switch cfg.Seed.Source {
	case "file":
		seedLoader = seed.NewFileLoader(cfg.Seed.FilePath, logger)
	case "s3":
		seedLoader, err = seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, cfg.Seed.S3Key, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 seed loader, using embedded seed")
			seedLoader = seed.NewEmbeddedLoader(logger)
		}
	default:
		seedLoader = seed.NewEmbeddedLoader(logger)
	}

	seedData, err := seedLoader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}
	if err := seed.NewSeeder(pool, logger).Apply(ctx, seedData); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	catalogRepo := repository.NewCatalogRepository(pool, logger)

	// Initialize collaborators
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	var provider payment.Provider
	if cfg.Stripe.SecretKey != "" {
		provider = payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, logger)
	} else {
		logger.Warn().Msg("no Stripe keys configured, checkout is disabled")
		provider = payment.NewDisabledProvider()
	}

	chatClient := chat.NewClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Model, logger)

	// Initialize services
	plans := model.Plans(cfg.Stripe.BasicPriceID, cfg.Stripe.PremiumPriceID)
	authService := service.NewAuthService(userRepo, tokens, plans, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)
	productService := service.NewProductService(productRepo, productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, productRepo, provider, cfg.Server.FrontendURL, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, provider, logger),
		Chat:     handler.NewChatHandler(chatClient, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, userRepo, cfg.Server.FrontendURL, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown complete")
	}

	return nil
}
