package catalog

import "context"

// Repository defines data access for the product catalog.
type Repository interface {
	// List returns active products matching the filters.
	List(ctx context.Context, f Filters) ([]*Product, error)

	// GetByID retrieves a single product, active or not.
	GetByID(ctx context.Context, id string) (*Product, error)

	// Search runs a bounded text search over name/description/category.
	Search(ctx context.Context, term string, limit int) ([]*Product, error)

	// Featured returns the top-rated active products.
	Featured(ctx context.Context, limit int) ([]*Product, error)
}
