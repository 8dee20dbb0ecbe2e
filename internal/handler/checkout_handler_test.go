package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heritage-api/internal/model"
	"heritage-api/internal/payment"
	"heritage-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_CreateSession(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, new(MockPaymentProvider), zerolog.Nop())

	svc.On("BeginCheckout", mock.Anything, mock.AnythingOfType("*model.User")).
		Return(&model.CheckoutSessionResponse{
			CheckoutURL: "https://checkout.test/cs_test_123",
			SessionID:   "cs_test_123",
		}, nil)

	w := httptest.NewRecorder()
	h.CreateSession(w, authedRequest(http.MethodPost, "/api/checkout/session", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.CheckoutSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp.SessionID)
}

func TestCheckoutHandler_CreateSession_EmptyCart(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, new(MockPaymentProvider), zerolog.Nop())

	svc.On("BeginCheckout", mock.Anything, mock.Anything).Return(nil, model.ErrEmptyCart)

	w := httptest.NewRecorder()
	h.CreateSession(w, authedRequest(http.MethodPost, "/api/checkout/session", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_CreateSession_ProviderDown(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, new(MockPaymentProvider), zerolog.Nop())

	svc.On("BeginCheckout", mock.Anything, mock.Anything).
		Return(nil, &model.ExternalServiceError{Service: "stripe", Err: errors.New("timeout")})

	w := httptest.NewRecorder()
	h.CreateSession(w, authedRequest(http.MethodPost, "/api/checkout/session", ""))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func webhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return req
}

func TestCheckoutHandler_Webhook(t *testing.T) {
	svc := new(MockCheckoutService)
	provider := new(MockPaymentProvider)
	h := NewCheckoutHandler(svc, provider, zerolog.Nop())

	payload := `{"type": "checkout.session.completed"}`
	provider.On("VerifyWebhook", []byte(payload), "t=1,v1=abc").
		Return(&payment.Event{
			Type:            payment.EventCheckoutCompleted,
			SessionID:       "cs_test_123",
			PaymentIntentID: "pi_test_456",
		}, nil)
	svc.On("Reconcile", mock.Anything, &service.ReconcileEvent{
		Type:            payment.EventCheckoutCompleted,
		SessionID:       "cs_test_123",
		PaymentIntentID: "pi_test_456",
	}).Return(nil)

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(payload, "t=1,v1=abc"))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCheckoutHandler_Webhook_BadSignature(t *testing.T) {
	svc := new(MockCheckoutService)
	provider := new(MockPaymentProvider)
	h := NewCheckoutHandler(svc, provider, zerolog.Nop())

	payload := `{"type": "checkout.session.completed"}`
	provider.On("VerifyWebhook", []byte(payload), "t=1,v1=forged").
		Return(nil, fmt.Errorf("%w: no valid signature", model.ErrSignatureInvalid))

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(payload, "t=1,v1=forged"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeSignatureInvalid, resp.Error)
}

func TestCheckoutHandler_Webhook_ReconcileFailure(t *testing.T) {
	svc := new(MockCheckoutService)
	provider := new(MockPaymentProvider)
	h := NewCheckoutHandler(svc, provider, zerolog.Nop())

	payload := `{"type": "checkout.session.completed"}`
	provider.On("VerifyWebhook", []byte(payload), "t=1,v1=abc").
		Return(&payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_test_123"}, nil)
	svc.On("Reconcile", mock.Anything, mock.Anything).Return(errors.New("db down"))

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(payload, "t=1,v1=abc"))

	// Non-2xx so the provider redelivers.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCheckoutHandler_Metrics(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, new(MockPaymentProvider), zerolog.Nop())

	svc.On("OversoldUnits").Return(int64(3))

	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"oversold_units_total": 3}`, w.Body.String())
}
