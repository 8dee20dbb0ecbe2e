package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) row of a shopping cart. Quantity is always
// positive: an update to zero or below deletes the row instead of persisting
// it.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"-" db:"user_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine is a cart item joined with its product for display. Subtotal is
// computed at read time, not frozen.
type CartLine struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Product  Product         `json:"product"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartAddRequest is the payload for POST /api/cart.
type CartAddRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartUpdateRequest is the payload for PUT /api/cart/{id}.
type CartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// CartRemovedResponse reports a successful removal, including the
// update-to-zero path.
type CartRemovedResponse struct {
	Removed bool  `json:"removed"`
	ID      int64 `json:"id"`
}
