package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Service defines catalog business logic.
type Service interface {
	// ListProducts returns active products matching the filters.
	ListProducts(ctx context.Context, f Filters) ([]*Product, error)

	// GetProduct retrieves a product by its slug id.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// SearchProducts runs a bounded text search.
	SearchProducts(ctx context.Context, term string) ([]*Product, error)

	// FeaturedProducts returns the top-rated products for the home page.
	FeaturedProducts(ctx context.Context, limit int) ([]*Product, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListProducts(ctx context.Context, f Filters) ([]*Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fmt.Errorf("min_price cannot exceed max_price")
	}
	return s.repo.List(ctx, f)
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("product id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) SearchProducts(ctx context.Context, term string) ([]*Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, term, 10)
}

func (s *service) FeaturedProducts(ctx context.Context, limit int) ([]*Product, error) {
	return s.repo.Featured(ctx, limit)
}
