package wishlist

import (
	"context"
	"fmt"
)

// Service defines wishlist business logic.
type Service interface {
	// Toggle inverts membership: a wishlisted product is removed, an absent
	// one is added. It reports whether the product ended up in the list.
	Toggle(ctx context.Context, userID, productID string) (added bool, err error)

	// List returns the user's wishlist with product details, newest first.
	List(ctx context.Context, userID string) ([]*Entry, error)

	// Contains reports whether the product is wishlisted.
	Contains(ctx context.Context, userID, productID string) (bool, error)
}

type service struct {
	repo Repository
}

// NewService creates a new wishlist service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if productID == "" {
		return false, fmt.Errorf("product_id is required")
	}
	present, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.repo.Remove(ctx, userID, productID)
	}
	if _, err := s.repo.Add(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) List(ctx context.Context, userID string) ([]*Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return s.repo.Contains(ctx, userID, productID)
}
