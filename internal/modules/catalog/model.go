package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Product is a catalog entry. IDs are short slugs (e.g. "poncho"), not
// UUIDs, matching the storefront's product identifiers.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Sizes       pq.StringArray `json:"sizes,omitempty"`
	Stock       int            `json:"stock"`
	Rating      float64        `json:"rating"`
	Sales       int            `json:"sales"`
	ImageURL    string         `json:"image_url,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SortBy values accepted by list queries.
const (
	SortPriceAsc  = "precio-asc"
	SortPriceDesc = "precio-desc"
	SortName      = "nombre"
	SortRating    = "rating"
	SortSales     = "ventas"
	SortNewest    = "" // default
)

// Filters narrows a product listing.
type Filters struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	SortBy   string
}
