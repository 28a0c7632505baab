package payment

import "context"

// Repository defines data access for payment transaction records.
type Repository interface {
	// CreateTransaction persists a new payment attempt record.
	CreateTransaction(ctx context.Context, tx *Transaction) error

	// GetTransaction retrieves a record by its internal UUID.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)

	// GetByTransactionID retrieves a record by the processor reference
	// (e.g. TXN-... or YAPE-...).
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)

	// ListRecent returns the most recent transaction records.
	ListRecent(ctx context.Context, limit int) ([]*Transaction, error)
}
