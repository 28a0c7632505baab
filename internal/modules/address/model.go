package address

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved delivery address in a user's address book.
type Address struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Label      string    `json:"label,omitempty"` // "Casa", "Oficina", ...
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Input is the payload for creating or updating an address.
type Input struct {
	Label      string `json:"label,omitempty"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
	IsDefault  bool   `json:"is_default"`
}
