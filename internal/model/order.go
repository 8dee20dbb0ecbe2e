package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. There is deliberately no
// failed/cancelled state: an abandoned checkout leaves its order pending
// with no stock held against it.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order is immutable once completed, except that the payment confirmation id
// is recorded by the webhook reconciler in the same transaction that
// completes it.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            int64           `json:"-" db:"user_id"`
	Status            OrderStatus     `json:"status" db:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	CheckoutSessionID *string         `json:"-" db:"checkout_session_id"`
	PaymentIntentID   *string         `json:"-" db:"payment_intent_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderItem freezes unit price and subtotal at order time so historical
// orders are immune to later catalog edits.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// OrderItemDetail is an order item with its product snapshot for responses.
type OrderItemDetail struct {
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDetail is an order plus its line items.
type OrderDetail struct {
	ID          uuid.UUID         `json:"id"`
	Status      OrderStatus       `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemDetail `json:"items"`
}

// CheckoutSessionResponse is returned by POST /api/checkout/session.
type CheckoutSessionResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}
