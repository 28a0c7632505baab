package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimustore/chimu-backend/internal/modules/appstate"
	"github.com/chimustore/chimu-backend/internal/modules/order"
	"github.com/chimustore/chimu-backend/internal/modules/payment"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakePayments struct {
	mu          sync.Mutex
	cardCalls   int
	walletCalls int
	err         error
	unblock     chan struct{} // when set, charges wait on it
}

func (f *fakePayments) ChargeCard(ctx context.Context, req payment.CardPayment) (*payment.Result, error) {
	f.mu.Lock()
	f.cardCalls++
	wait := f.unblock
	f.mu.Unlock()
	if wait != nil {
		<-wait
	}
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Result{
		TransactionID: "TXN-123",
		Amount:        req.Amount,
		Method:        payment.MethodCard,
		MaskedCard:    payment.MaskCardNumber(req.CardNumber),
	}, nil
}

func (f *fakePayments) ChargeWallet(ctx context.Context, req payment.WalletPayment) (*payment.Result, error) {
	f.mu.Lock()
	f.walletCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Result{
		TransactionID: "YAPE-123",
		Amount:        req.Amount,
		Method:        req.Method,
		PhoneNumber:   req.PhoneNumber,
	}, nil
}

type fakeOrders struct {
	mu       sync.Mutex
	requests []order.CreateRequest
	err      error
}

func (f *fakeOrders) Create(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &order.Order{
		OrderNumber: "CHI-1750000000000-42",
		Total:       req.Total,
		CreatedAt:   time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC),
	}, nil
}

type fakeToaster struct {
	mu       sync.Mutex
	messages []string
	types    []appstate.ToastType
}

func (f *fakeToaster) Show(message string, typ appstate.ToastType, _ time.Duration) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	f.types = append(f.types, typ)
	return "toast-id"
}

func (f *fakeToaster) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

// ── helpers ──────────────────────────────────────────────────────────────────

func cartStore() *appstate.Store {
	st := appstate.NewStore()
	st.Dispatch(appstate.AddToCart{
		Item:     appstate.CartLine{ID: "p1", Name: "Polo Chimu", Price: 149, Stock: 50},
		Quantity: 1,
	})
	return st
}

func newTestSession(t *testing.T, st *appstate.Store, payments *fakePayments, orders *fakeOrders, toasts *fakeToaster, opts ...SessionOption) *Session {
	t.Helper()
	opts = append(opts, WithNow(func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}))
	s, err := NewSession("s1", st, payments, orders, toasts, opts...)
	require.NoError(t, err)
	return s
}

func fillDetails(s *Session) {
	s.SetField("nombre", "Ana")
	s.SetField("apellido", "Quispe")
	s.SetField("email", "ana@chimu.pe")
	s.SetField("telefono", "987654321")
}

func fillShipping(s *Session) {
	s.SetField("direccion", "Av. Larco 345")
	s.SetField("ciudad", "Trujillo")
	s.SetField("departamento", "La Libertad")
}

func fillCard(s *Session) {
	s.SetField("numeroTarjeta", "4111 1111 1111 1111")
	s.SetField("nombreTarjeta", "ANA QUISPE")
	s.SetField("fechaExpiracion", "12/26")
	s.SetField("cvv", "123")
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestNewSessionRequiresItems(t *testing.T) {
	_, err := NewSession("s1", appstate.NewStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSessionTotalsFromSnapshot(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	v := s.View()
	assert.Equal(t, StepDetails, v.Step)
	assert.Equal(t, 149.0, v.Subtotal)
	assert.Equal(t, 15.0, v.Shipping)
	assert.Equal(t, 164.0, v.Total)
}

func TestSessionFrozenSnapshot(t *testing.T) {
	st := cartStore()
	s := newTestSession(t, st, &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	// Clearing the live cart mid-checkout does not touch the session.
	st.Dispatch(appstate.ClearCart{})

	v := s.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 164.0, v.Total)
}

func TestNextBlocksOnInvalidStep(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	v, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepDetails, v.Step, "invalid details keep the wizard on step one")
	assert.Contains(t, v.Errors, "nombre")
	assert.Contains(t, v.Errors, "email")
}

func TestNextAdvancesThroughSteps(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	fillDetails(s)
	v, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepShipping, v.Step)
	assert.Empty(t, v.Errors)

	fillShipping(s)
	v, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepPayment, v.Step)
}

func TestSetFieldClearsItsError(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	v, err := s.Next(context.Background())
	require.NoError(t, err)
	require.Contains(t, v.Errors, "nombre")
	require.Contains(t, v.Errors, "email")

	v = s.SetField("nombre", "Ana")
	assert.NotContains(t, v.Errors, "nombre")
	assert.Contains(t, v.Errors, "email", "other errors stay until their field changes")
}

func TestPreviousClearsErrors(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})

	fillDetails(s)
	_, err := s.Next(context.Background())
	require.NoError(t, err)

	// Fail shipping validation, then step back.
	v, err := s.Next(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, v.Errors)

	v = s.Previous()
	assert.Equal(t, StepDetails, v.Step)
	assert.Empty(t, v.Errors)

	// Previous on the first step stays put.
	v = s.Previous()
	assert.Equal(t, StepDetails, v.Step)
}

func TestCancelCleanFormNavigatesHome(t *testing.T) {
	var paths []string
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{},
		WithNavigate(func(p string) { paths = append(paths, p) }))

	v := s.Cancel()
	assert.False(t, v.ExitConfirm)
	assert.Equal(t, []string{"/"}, paths)
}

func TestCancelDirtyFormAsksFirst(t *testing.T) {
	var paths []string
	st := cartStore()
	s := newTestSession(t, st, &fakePayments{}, &fakeOrders{}, &fakeToaster{},
		WithNavigate(func(p string) { paths = append(paths, p) }))

	s.SetField("nombre", "Ana")
	v := s.Cancel()
	assert.True(t, v.ExitConfirm)
	assert.Empty(t, paths, "dirty form opens the overlay instead of leaving")

	v = s.DismissExit()
	assert.False(t, v.ExitConfirm)
	assert.Empty(t, paths)
}

func TestConfirmExitNavigatesThenClears(t *testing.T) {
	st := cartStore()

	var sequence []string
	s := newTestSession(t, st, &fakePayments{}, &fakeOrders{}, &fakeToaster{},
		WithNavigate(func(p string) { sequence = append(sequence, "navigate:"+p) }))
	st.Subscribe(func(next appstate.State) {
		if len(next.CartItems) == 0 {
			sequence = append(sequence, "cart-cleared")
		}
	})

	s.SetField("nombre", "Ana")
	s.Cancel()
	s.ConfirmExit()

	assert.Equal(t, []string{"navigate:/", "cart-cleared"}, sequence)
	assert.Empty(t, st.Snapshot().CartItems)
}

func TestSubmitSuccess(t *testing.T) {
	st := cartStore()
	st.Dispatch(appstate.SetIdentity{Identity: &appstate.Identity{UserID: "u1", Email: "ana@chimu.pe"}})

	payments := &fakePayments{}
	orders := &fakeOrders{}
	toasts := &fakeToaster{}

	var paths []string
	s := newTestSession(t, st, payments, orders, toasts,
		WithNavigate(func(p string) { paths = append(paths, p) }))

	fillDetails(s)
	_, err := s.Next(context.Background())
	require.NoError(t, err)
	fillShipping(s)
	_, err = s.Next(context.Background())
	require.NoError(t, err)
	fillCard(s)

	v, err := s.Next(context.Background())
	require.NoError(t, err)

	require.NotNil(t, v.Confirmation)
	assert.Equal(t, "CHI-1750000000000-42", v.Confirmation.OrderNumber)
	assert.Equal(t, "15/06/2025", v.Confirmation.OrderDate)
	assert.Equal(t, "Ana Quispe", v.Confirmation.CustomerName)
	assert.Equal(t, "ana@chimu.pe", v.Confirmation.CustomerEmail)
	assert.Equal(t, "TXN-123", v.Confirmation.TransactionID)
	assert.False(t, v.Processing)

	assert.Equal(t, 1, payments.cardCalls)
	require.Len(t, orders.requests, 1)
	req := orders.requests[0]
	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, 164.0, req.Total)
	assert.Equal(t, 15.0, req.ShippingCost)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "p1", req.Items[0].ID)

	assert.Empty(t, st.Snapshot().CartItems, "cart cleared after order creation")
	assert.Equal(t, []string{"/confirmacion"}, paths)
	assert.Equal(t, "¡Orden creada exitosamente!", toasts.last())
}

func TestSubmitWalletUsesPhone(t *testing.T) {
	payments := &fakePayments{}
	orders := &fakeOrders{}
	s := newTestSession(t, cartStore(), payments, orders, &fakeToaster{})

	fillDetails(s)
	fillShipping(s)
	s.SetField("metodoPago", "yape")

	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, payments.walletCalls)
	assert.Zero(t, payments.cardCalls)
	require.Len(t, orders.requests, 1)
	assert.Equal(t, "yape", orders.requests[0].Payment.Method)
}

func TestSubmitRejectsInvalidCardData(t *testing.T) {
	payments := &fakePayments{}
	toasts := &fakeToaster{}
	s := newTestSession(t, cartStore(), payments, &fakeOrders{}, toasts)

	fillCard(s)
	s.SetField("numeroTarjeta", "1111111111111111") // 16 digits, fails Luhn

	v, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, v.Errors, "numeroTarjeta")
	assert.False(t, v.Processing)
	assert.Zero(t, payments.cardCalls, "validation failure never reaches the gateway")
	assert.NotEmpty(t, toasts.last())
}

func TestSubmitDeclineKeepsDataAndStep(t *testing.T) {
	payments := &fakePayments{err: payment.ErrDeclined}
	orders := &fakeOrders{}
	toasts := &fakeToaster{}
	s := newTestSession(t, cartStore(), payments, orders, toasts)

	fillDetails(s)
	fillShipping(s)
	fillCard(s)

	v, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, v.Processing)
	assert.Nil(t, v.Confirmation)
	assert.Equal(t, "4111 1111 1111 1111", v.Form.CardNumber, "entered data survives a decline")
	assert.Empty(t, orders.requests, "no order on declined payment")
	assert.Equal(t, payment.ErrDeclined.Error(), toasts.last())
}

func TestSubmitOrderFailureReleasesProcessing(t *testing.T) {
	orders := &fakeOrders{err: errors.New("db down")}
	toasts := &fakeToaster{}
	s := newTestSession(t, cartStore(), &fakePayments{}, orders, toasts)

	fillCard(s)
	v, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, v.Processing)
	assert.Nil(t, v.Confirmation)
	assert.Equal(t, "Error al crear la orden. Inténtalo de nuevo.", toasts.last())
}

func TestSubmitRejectsOverlap(t *testing.T) {
	payments := &fakePayments{unblock: make(chan struct{})}
	orders := &fakeOrders{}
	s := newTestSession(t, cartStore(), payments, orders, &fakeToaster{})
	fillCard(s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	// Wait for the first submit to reach the blocked charge.
	require.Eventually(t, func() bool {
		payments.mu.Lock()
		defer payments.mu.Unlock()
		return payments.cardCalls == 1
	}, time.Second, time.Millisecond)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(payments.unblock)
	require.NoError(t, <-done)

	assert.Equal(t, 1, payments.cardCalls, "only one charge for overlapping submits")
	assert.Len(t, orders.requests, 1, "exactly one order created")
}

func TestClosedSessionDiscardsResults(t *testing.T) {
	payments := &fakePayments{unblock: make(chan struct{})}
	orders := &fakeOrders{}
	st := cartStore()
	s := newTestSession(t, st, payments, orders, &fakeToaster{})
	fillCard(s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		payments.mu.Lock()
		defer payments.mu.Unlock()
		return payments.cardCalls == 1
	}, time.Second, time.Millisecond)

	s.Close()
	close(payments.unblock)

	assert.ErrorIs(t, <-done, ErrSessionClosed)
	assert.Empty(t, orders.requests, "closed session never places the order")
	assert.NotEmpty(t, st.Snapshot().CartItems, "closed session never clears the cart")
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	s := newTestSession(t, cartStore(), &fakePayments{}, &fakeOrders{}, &fakeToaster{})
	s.Close()

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
