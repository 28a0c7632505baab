package address

import "context"

// Repository defines data access for the address book.
type Repository interface {
	// Create persists a new address. When it is the default, every other
	// address of the user is demoted in the same transaction.
	Create(ctx context.Context, a *Address) error

	// GetByID retrieves an address by id.
	GetByID(ctx context.Context, id string) (*Address, error)

	// ListByUser returns a user's addresses, default first, then newest.
	ListByUser(ctx context.Context, userID string) ([]*Address, error)

	// Update rewrites an address owned by the user; default demotion works
	// as in Create.
	Update(ctx context.Context, a *Address) error

	// Delete removes an address owned by the user.
	Delete(ctx context.Context, id, userID string) error

	// SetDefault marks one address as default and demotes the rest.
	SetDefault(ctx context.Context, id, userID string) error
}
