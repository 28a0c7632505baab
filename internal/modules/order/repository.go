package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable order number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrdersByUser returns all orders placed by a user, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus advances an order to a new status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// UpdatePaymentStatus records a change on the payment side.
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error

	// AdjustProductStock decrements a product's stock and increments its
	// sales counter after an order is placed.
	AdjustProductStock(ctx context.Context, productID string, quantity int) error
}
