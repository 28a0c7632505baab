package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Service runs payments through the gateway and records every attempt.
type Service interface {
	// ChargeCard processes a card payment and records the outcome.
	ChargeCard(ctx context.Context, req CardPayment) (*Result, error)

	// ChargeWallet processes a Yape/Plin payment and records the outcome.
	ChargeWallet(ctx context.Context, req WalletPayment) (*Result, error)

	// GetTransaction retrieves a recorded attempt by internal id.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)

	// ListRecent returns the most recent recorded attempts.
	ListRecent(ctx context.Context, limit int) ([]*Transaction, error)
}

type service struct {
	repo    Repository
	gateway Gateway
}

// NewService creates a new payment service.
func NewService(repo Repository, gateway Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

func (s *service) ChargeCard(ctx context.Context, req CardPayment) (*Result, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	res, err := s.gateway.ProcessCard(ctx, req)
	s.record(ctx, MethodCard, req.Amount, res, err, "")
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) ChargeWallet(ctx context.Context, req WalletPayment) (*Result, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	res, err := s.gateway.ProcessWallet(ctx, req)
	s.record(ctx, req.Method, req.Amount, res, err, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*Transaction, error) {
	return s.repo.ListRecent(ctx, limit)
}

// record persists the attempt. Recording is best-effort: a failed insert
// must not turn an approved charge into an error for the shopper.
func (s *service) record(ctx context.Context, method Method, amount float64, res *Result, chargeErr error, phone string) {
	tx := &Transaction{
		ID:          uuid.New(),
		Method:      method,
		Amount:      amount,
		Currency:    "PEN",
		PhoneNumber: phone,
	}
	switch {
	case chargeErr == nil:
		tx.Status = TxCompleted
		tx.TransactionID = res.TransactionID
		tx.CardType = res.CardType
		tx.MaskedCard = res.MaskedCard
		if res.PhoneNumber != "" {
			tx.PhoneNumber = res.PhoneNumber
		}
	case errors.Is(chargeErr, ErrDeclined):
		tx.Status = TxDeclined
		tx.LastError = chargeErr.Error()
	default:
		tx.Status = TxRejected
		tx.LastError = chargeErr.Error()
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		// Keep the charge outcome authoritative.
		log.Printf("payment: failed to record transaction: %v", err)
	}
}
