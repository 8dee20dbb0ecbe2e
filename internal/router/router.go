package router

import (
	"net/http"

	"heritage-api/internal/auth"
	"heritage-api/internal/handler"
	"heritage-api/internal/middleware"
	"heritage-api/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles the handler set the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Checkout *handler.CheckoutHandler
	Chat     *handler.ChatHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	tokens *auth.TokenManager,
	users repository.UserRepository,
	frontendURL string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(frontendURL))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Get("/metrics", h.Checkout.Metrics)

	// Webhook callbacks authenticate by signature, not bearer token.
	r.Post("/api/payment/webhook", h.Checkout.Webhook)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Public catalog and marketplace reads
		r.Get("/figures", h.Catalog.ListFigures)
		r.Get("/figures/{id}", h.Catalog.GetFigure)
		r.Get("/events", h.Catalog.ListEvents)
		r.Get("/events/{id}", h.Catalog.GetEvent)
		r.Get("/categories", h.Catalog.Categories)
		r.Get("/marketplace/products", h.Product.List)
		r.Get("/marketplace/products/{id}", h.Product.Get)
		r.Get("/marketplace/categories", h.Product.Categories)
		r.Get("/subscriptions/plans", h.Auth.Plans)

		r.Post("/ai/chat", h.Chat.Complete)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, users, logger))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/subscriptions/select", h.Auth.SelectPlan)

			r.Get("/cart", h.Cart.List)
			r.Post("/cart", h.Cart.Add)
			r.Put("/cart/{id}", h.Cart.Update)
			r.Delete("/cart/{id}", h.Cart.Remove)

			r.Post("/orders", h.Order.Create)
			r.Get("/orders", h.Order.List)

			r.Post("/checkout/session", h.Checkout.CreateSession)
			r.Post("/marketplace/products/{id}/purchase", h.Product.Purchase)
		})
	})

	return r
}
