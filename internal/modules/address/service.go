package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chimustore/chimu-backend/internal/forms"
)

// Service defines address-book business logic.
type Service interface {
	// Create adds an address to the user's book.
	Create(ctx context.Context, userID string, in Input) (*Address, error)

	// Get retrieves an address, checking ownership.
	Get(ctx context.Context, id, userID string) (*Address, error)

	// List returns the user's addresses, default first.
	List(ctx context.Context, userID string) ([]*Address, error)

	// Update rewrites an address the user owns.
	Update(ctx context.Context, id, userID string, in Input) (*Address, error)

	// Delete removes an address the user owns.
	Delete(ctx context.Context, id, userID string) error

	// SetDefault makes one address the default delivery target.
	SetDefault(ctx context.Context, id, userID string) error
}

type service struct {
	repo Repository
}

// NewService creates a new address service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

var inputRules = forms.Rules{
	"full_name": {Required: true},
	"street":    {Required: true, MinLength: 5, Message: "street is too short"},
	"city":      {Required: true, MinLength: 2, Message: "city is required"},
	"state":     {Required: true},
}

func validateInput(in Input) error {
	errs := inputRules.Validate(map[string]string{
		"full_name": in.FullName,
		"street":    in.Street,
		"city":      in.City,
		"state":     in.State,
	})
	if msg := forms.FirstError(errs, "full_name", "street", "city", "state"); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID string, in Input) (*Address, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	a := &Address{
		ID:         uuid.New(),
		UserID:     uid,
		Label:      strings.TrimSpace(in.Label),
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		State:      in.State,
		PostalCode: strings.TrimSpace(in.PostalCode),
		IsDefault:  in.IsDefault,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, id, userID string) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("address not found: %w", err)
	}
	if a.UserID.String() != userID {
		return nil, fmt.Errorf("address not found")
	}
	return a, nil
}

func (s *service) List(ctx context.Context, userID string) ([]*Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, id, userID string, in Input) (*Address, error) {
	a, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	a.Label = strings.TrimSpace(in.Label)
	a.FullName = strings.TrimSpace(in.FullName)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Street = strings.TrimSpace(in.Street)
	a.City = strings.TrimSpace(in.City)
	a.State = in.State
	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.IsDefault = in.IsDefault

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *service) SetDefault(ctx context.Context, id, userID string) error {
	return s.repo.SetDefault(ctx, id, userID)
}
