package payment

import (
	"context"
	"errors"
	"fmt"

	"heritage-api/internal/model"
)

var errNotConfigured = errors.New("payment provider is not configured")

// disabledProvider is swapped in when no processor keys are configured, so
// non-payment endpoints keep working in development environments.
type disabledProvider struct{}

// NewDisabledProvider creates a provider that rejects every call.
func NewDisabledProvider() Provider {
	return disabledProvider{}
}

func (disabledProvider) CreateSession(context.Context, SessionRequest) (*Session, error) {
	return nil, &model.ExternalServiceError{Service: "stripe", Err: errNotConfigured}
}

func (disabledProvider) VerifyWebhook([]byte, string) (*Event, error) {
	return nil, fmt.Errorf("%w: provider disabled", model.ErrSignatureInvalid)
}
