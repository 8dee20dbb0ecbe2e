package handler

import (
	"errors"
	"io"
	"net/http"

	"heritage-api/internal/middleware"
	"heritage-api/internal/model"
	"heritage-api/internal/payment"
	"heritage-api/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBody bounds webhook payload reads; Stripe events are small.
const maxWebhookBody = 1 << 20

// CheckoutHandler handles the deferred payment flow: session creation for
// authenticated users and the provider's webhook callback.
type CheckoutHandler struct {
	service  service.CheckoutService
	provider payment.Provider
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, provider payment.Provider, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		provider: provider,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// CreateSession handles POST /api/checkout/session requests.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	session, err := h.service.BeginCheckout(r.Context(), user)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Webhook handles POST /api/payment/webhook requests. The signature is
// verified before anything else; a verified event that matches no pending
// order still gets a 200 so the provider stops retrying.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "failed to read webhook payload", h.logger)
		return
	}

	event, err := h.provider.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, model.ErrSignatureInvalid) {
			writeError(w, http.StatusBadRequest, model.ErrCodeSignatureInvalid,
				"webhook signature verification failed", h.logger)
			return
		}
		respondError(w, err, h.logger)
		return
	}

	if err := h.service.Reconcile(r.Context(), &service.ReconcileEvent{
		Type:            event.Type,
		SessionID:       event.SessionID,
		PaymentIntentID: event.PaymentIntentID,
	}); err != nil {
		// A retryable failure: the provider redelivers on non-2xx.
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// Metrics handles GET /metrics requests.
func (h *CheckoutHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{
		"oversold_units_total": h.service.OversoldUnits(),
	})
}
