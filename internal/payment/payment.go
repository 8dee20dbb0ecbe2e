// Package payment wraps the external payment processor behind a small
// interface so services depend on a constructed collaborator rather than a
// package-level SDK singleton.
package payment

import "context"

// LineItem is one priced line of a checkout session. UnitAmount is in the
// currency's minor unit (cents).
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

// SessionRequest carries everything needed to open a checkout session.
type SessionRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

// Session is the provider's record of an in-progress payment.
type Session struct {
	ID  string
	URL string
}

// EventCheckoutCompleted is the only event type the reconciler acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a verified webhook notification. Delivery is at-least-once;
// consumers must be idempotent.
type Event struct {
	Type            string
	SessionID       string
	PaymentIntentID string
}

// Provider creates checkout sessions and authenticates inbound webhooks.
type Provider interface {
	// CreateSession opens a checkout session with the processor. Must never
	// be called while holding a stock lock or an open database transaction.
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)

	// VerifyWebhook checks the payload signature and parses the event.
	// Returns model.ErrSignatureInvalid (wrapped) on authenticity failure.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
