package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Gateway is the provider-agnostic interface every payment adapter must
// implement. The production build would add adapters for a real processor
// (Niubiz, Culqi, Stripe); the storefront ships with the simulator below.
type Gateway interface {
	// ProcessCard validates and charges a card payment.
	ProcessCard(ctx context.Context, req CardPayment) (*Result, error)
	// ProcessWallet validates and charges a Yape/Plin payment.
	ProcessWallet(ctx context.Context, req WalletPayment) (*Result, error)
}

// ErrDeclined is returned when the simulated processor declines a valid card.
var ErrDeclined = fmt.Errorf("payment declined, please try another card")

const (
	cardProcessingDelay   = 2 * time.Second
	walletProcessingDelay = 1500 * time.Millisecond
	approvalRate          = 0.9
)

// simulatedGateway approves valid cards with a fixed probability after a
// simulated processing delay. Outcome source, sleeper and clock are all
// injectable so tests can force either branch deterministically.
type simulatedGateway struct {
	approve func() bool
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// Option customises the simulated gateway.
type Option func(*simulatedGateway)

// WithApproval replaces the random approval source.
func WithApproval(approve func() bool) Option {
	return func(g *simulatedGateway) { g.approve = approve }
}

// WithSleep replaces the processing-delay sleeper.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *simulatedGateway) { g.sleep = sleep }
}

// WithNow replaces the clock used for timestamps and expiry checks.
func WithNow(now func() time.Time) Option {
	return func(g *simulatedGateway) { g.now = now }
}

// NewSimulatedGateway creates the demo gateway. By default it approves 90%
// of valid card charges using an unseeded random source, as the storefront
// demo always has.
func NewSimulatedGateway(opts ...Option) Gateway {
	g := &simulatedGateway{
		approve: func() bool { return rand.Float64() < approvalRate },
		sleep:   sleepCtx,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ProcessCard validates the card in order (number, expiry, CVV), short-
// circuiting on the first failure, then simulates processing and either
// approves or declines. No state is retained on failure.
func (g *simulatedGateway) ProcessCard(ctx context.Context, req CardPayment) (*Result, error) {
	if !ValidateCardNumber(req.CardNumber) {
		return nil, fmt.Errorf("invalid card number")
	}
	if !ValidateExpirationDate(req.ExpirationDate, g.now()) {
		return nil, fmt.Errorf("invalid or expired expiration date")
	}
	if !ValidateCVV(req.CVV) {
		return nil, fmt.Errorf("invalid cvv")
	}

	if err := g.sleep(ctx, cardProcessingDelay); err != nil {
		return nil, err
	}

	if !g.approve() {
		return nil, ErrDeclined
	}

	now := g.now()
	return &Result{
		TransactionID: fmt.Sprintf("TXN-%d-%09d", now.UnixMilli(), rand.Intn(1_000_000_000)),
		Amount:        req.Amount,
		Method:        MethodCard,
		CardType:      CardTypeOf(req.CardNumber),
		MaskedCard:    MaskCardNumber(req.CardNumber),
		Timestamp:     now,
	}, nil
}

// ProcessWallet validates the local phone number, waits the shorter wallet
// delay and always approves, returning a pseudo QR reference.
func (g *simulatedGateway) ProcessWallet(ctx context.Context, req WalletPayment) (*Result, error) {
	if !req.Method.IsWallet() {
		return nil, fmt.Errorf("unsupported wallet method %q", req.Method)
	}
	if req.PhoneNumber != "" && !ValidateWalletPhone(req.PhoneNumber) {
		return nil, fmt.Errorf("invalid phone number")
	}

	if err := g.sleep(ctx, walletProcessingDelay); err != nil {
		return nil, err
	}

	now := g.now()
	method := string(req.Method)
	return &Result{
		TransactionID: fmt.Sprintf("%s-%d", strings.ToUpper(method), now.UnixMilli()),
		Amount:        req.Amount,
		Method:        req.Method,
		PhoneNumber:   req.PhoneNumber,
		QRCode: fmt.Sprintf(
			"https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=%s-payment-%d",
			method, now.UnixMilli()),
		Timestamp: now,
	}, nil
}
