package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one saved product in a user's persisted wishlist.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	// Denormalised product fields joined on read.
	ProductName  string  `json:"product_name,omitempty"`
	ProductPrice float64 `json:"product_price,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
}
