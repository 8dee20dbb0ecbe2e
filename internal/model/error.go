package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCartItemNotFound  = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeUsernameTaken     = "USERNAME_TAKEN"
	ErrCodeSignatureInvalid  = "SIGNATURE_INVALID"
	ErrCodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation safe to show to the caller.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found or inactive")
	ErrCartItemNotFound   = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "Not authenticated")
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorised, "Incorrect username or password")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "Email already registered")
	ErrUsernameTaken      = NewDomainError(ErrCodeUsernameTaken, "Username already taken")
	ErrSignatureInvalid   = NewDomainError(ErrCodeSignatureInvalid, "Webhook signature verification failed")
	ErrPlanNotFound       = NewDomainError("PLAN_NOT_FOUND", "Plan not found")
)

// InsufficientStockError names the offending product and how many units are
// actually available, so the caller can act on it.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("not enough stock for %s: only %d available", e.ProductName, e.Available)
	}
	return fmt.Sprintf("only %d items available in stock", e.Available)
}

// ExternalServiceError wraps a payment/chat collaborator failure without
// leaking collaborator internals beyond a summary.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
