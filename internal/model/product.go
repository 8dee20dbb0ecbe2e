package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a marketplace listing. StockQuantity is only ever
// mutated through the inventory repository's locked operations and never
// drops below zero.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Category      string          `json:"category" db:"category"`
	SellerID      *int64          `json:"seller_id,omitempty" db:"seller_id"`
	ImageURLs     []string        `json:"image_urls" db:"image_urls"`
	Tags          []string        `json:"tags" db:"tags"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductFilter narrows marketplace listings. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Search   string
}

// PurchaseResponse is returned by the single-unit quick-buy endpoint.
type PurchaseResponse struct {
	Message        string `json:"message"`
	RemainingStock int    `json:"remaining_stock"`
}
