package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Order is a placed customer order.
type Order struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"` // nil for guest checkout
	OrderNumber string     `json:"order_number"`
	Status      Status     `json:"status"`

	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`

	ShippingName       string `json:"shipping_name"`
	ShippingEmail      string `json:"shipping_email"`
	ShippingPhone      string `json:"shipping_phone"`
	ShippingAddress    string `json:"shipping_address"`
	ShippingCity       string `json:"shipping_city"`
	ShippingState      string `json:"shipping_state"`
	ShippingPostalCode string `json:"shipping_postal_code"`

	PaymentMethod        string        `json:"payment_method"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentTransactionID string        `json:"payment_transaction_id,omitempty"`

	Items     []*Item   `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a single product line frozen into an order.
type Item struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductPrice float64   `json:"product_price"`
	Quantity     int       `json:"quantity"`
	Size         string    `json:"size,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── Request DTOs ─────────────────────────────────────────────────────────────

// ItemInput describes one cart line at checkout time.
type ItemInput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
}

// ShippingInput is the delivery address collected by the checkout wizard.
type ShippingInput struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code,omitempty"`
}

// PaymentInput records how the order was paid.
type PaymentInput struct {
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// CreateRequest is the payload for creating a new order.
type CreateRequest struct {
	UserID       string        `json:"user_id,omitempty"`
	Items        []ItemInput   `json:"items"`
	Shipping     ShippingInput `json:"shipping"`
	Payment      PaymentInput  `json:"payment"`
	Subtotal     float64       `json:"subtotal"`
	ShippingCost float64       `json:"shipping_cost"`
	Total        float64       `json:"total"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentStatusRequest is the payload for updating payment state.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}
