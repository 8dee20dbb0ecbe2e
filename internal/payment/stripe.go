package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"heritage-api/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// stripeProvider implements Provider against the Stripe API.
type stripeProvider struct {
	api           *client.API
	webhookSecret string
	logger        zerolog.Logger
}

// NewStripeProvider creates a Stripe-backed payment provider with its own
// API client instance.
func NewStripeProvider(secretKey, webhookSecret string, logger zerolog.Logger) Provider {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &stripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// CreateSession opens a Stripe checkout session in payment mode.
func (p *stripeProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Description != "" {
			productData.Description = stripe.String(li.Description)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(li.UnitAmount),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		p.logger.Error().Err(err).Msg("checkout session creation failed")
		return nil, &model.ExternalServiceError{Service: "stripe", Err: err}
	}

	p.logger.Info().Str("session_id", sess.ID).Msg("checkout session created")

	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header and parses the event.
func (p *stripeProvider) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.logger.Warn().Err(err).Msg("webhook signature verification failed")
		return nil, fmt.Errorf("%w: %v", model.ErrSignatureInvalid, err)
	}

	parsed := &Event{Type: string(event.Type)}

	if parsed.Type == EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to parse checkout session event: %w", err)
		}
		parsed.SessionID = sess.ID
		if sess.PaymentIntent != nil {
			parsed.PaymentIntentID = sess.PaymentIntent.ID
		}
	}

	return parsed, nil
}
