// Package seed populates the catalog tables on a fresh database. The payload
// can come from the embedded default set, a local file, or an S3 object, so
// deployments can swap in their own catalog without a rebuild.
package seed

import (
	"context"

	"heritage-api/internal/model"
)

// Data is the catalog payload applied to an empty database.
type Data struct {
	Figures  []model.HistoricalFigure `json:"figures"`
	Events   []model.HistoricalEvent  `json:"events"`
	Products []Product                `json:"products"`
}

// Product is a seedable marketplace listing. It carries no ids or
// timestamps; the database assigns those.
type Product struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         string   `json:"price"`
	Category      string   `json:"category"`
	ImageURLs     []string `json:"image_urls"`
	Tags          []string `json:"tags"`
	StockQuantity int      `json:"stock_quantity"`
}

// Loader defines the interface for reading a seed payload.
type Loader interface {
	// Load reads and decodes the seed payload.
	Load(ctx context.Context) (*Data, error)
}
