package wishlist

import "context"

// Repository defines data access for the persisted wishlist.
type Repository interface {
	// Add inserts a wishlist row for (user, product).
	Add(ctx context.Context, userID, productID string) (*Entry, error)

	// Remove deletes the row for (user, product); absent rows are a no-op.
	Remove(ctx context.Context, userID, productID string) error

	// Contains reports whether the product is wishlisted by the user.
	Contains(ctx context.Context, userID, productID string) (bool, error)

	// ListByUser returns the user's entries with product fields joined,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]*Entry, error)
}
