package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chimustore/chimu-backend/internal/modules/appstate"
	"github.com/chimustore/chimu-backend/internal/modules/order"
	"github.com/chimustore/chimu-backend/internal/modules/payment"
)

var (
	// ErrEmptyCart is returned when checkout starts with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSubmitInFlight is returned when a submit overlaps a running one.
	// Overlapping attempts are rejected, not queued.
	ErrSubmitInFlight = errors.New("a submission is already being processed")

	// ErrSessionClosed is returned for operations on a torn-down session.
	ErrSessionClosed = errors.New("checkout session is closed")
)

// Payments is the slice of the payment service the orchestrator needs.
type Payments interface {
	ChargeCard(ctx context.Context, req payment.CardPayment) (*payment.Result, error)
	ChargeWallet(ctx context.Context, req payment.WalletPayment) (*payment.Result, error)
}

// OrderPlacer creates the order once payment has succeeded.
type OrderPlacer interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Order, error)
}

// Toaster surfaces transient user feedback.
type Toaster interface {
	Show(message string, typ appstate.ToastType, duration time.Duration) string
}

// Session drives one checkout attempt through the three wizard steps and
// the final submission pipeline. The cart lines are copied once at
// construction; clearing the live cart mid-flow cannot corrupt the order
// being built from them.
type Session struct {
	mu sync.Mutex

	id          string
	step        Step
	form        Form
	errors      map[string]string
	exitConfirm bool
	processing  bool
	closed      bool

	items        []appstate.CartLine // frozen snapshot
	subtotal     float64
	total        float64
	confirmation *Confirmation

	store    *appstate.Store
	payments Payments
	orders   OrderPlacer
	notify   Toaster
	navigate func(path string)
	now      func() time.Time
}

// SessionOption customises a checkout session.
type SessionOption func(*Session)

// WithNavigate sets the navigation callback invoked on exit/confirmation.
func WithNavigate(fn func(path string)) SessionOption {
	return func(s *Session) { s.navigate = fn }
}

// WithNow sets the clock used for expiry validation and timestamps.
func WithNow(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession freezes the current cart contents and starts a session at the
// personal-details step.
func NewSession(id string, store *appstate.Store, payments Payments, orders OrderPlacer, notify Toaster, opts ...SessionOption) (*Session, error) {
	snapshot := store.Snapshot()
	if len(snapshot.CartItems) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]appstate.CartLine, len(snapshot.CartItems))
	copy(items, snapshot.CartItems)

	s := &Session{
		id:       id,
		step:     StepDetails,
		form:     initialForm(),
		errors:   map[string]string{},
		items:    items,
		store:    store,
		payments: payments,
		orders:   orders,
		notify:   notify,
		navigate: func(string) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Totals are computed once from the frozen snapshot, never re-read
	// from the live cart.
	for _, line := range items {
		s.subtotal += line.Price * float64(line.Quantity)
	}
	s.total = s.subtotal + ShippingCost
	return s, nil
}

func initialForm() Form { return Form{Method: payment.MethodCard} }

// View returns a read-only snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	errs := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}
	return View{
		ID:           s.id,
		Step:         s.step,
		Processing:   s.processing,
		ExitConfirm:  s.exitConfirm,
		Form:         s.form,
		Errors:       errs,
		Items:        s.items,
		Subtotal:     s.subtotal,
		Shipping:     ShippingCost,
		Total:        s.total,
		Confirmation: s.confirmation,
	}
}

// SetField updates a single form field and clears its displayed error.
func (s *Session) SetField(name, value string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.setField(name, value)
	delete(s.errors, name)
	return s.viewLocked()
}

// Next validates the current step. On failure the session stays on the step
// with every error surfaced; on success it advances, or submits when the
// payment step is already showing.
func (s *Session) Next(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return View{}, ErrSessionClosed
	}

	errs, ok := ValidateStep(s.step, s.form, s.now())
	if !ok {
		s.errors = errs
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}

	if s.step < StepPayment {
		s.step++
		s.errors = map[string]string{}
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	return s.Submit(ctx)
}

// Previous steps back one position without re-validating, clearing the
// errors displayed for the step being left.
func (s *Session) Previous() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepDetails {
		s.step--
		s.errors = map[string]string{}
	}
	return s.viewLocked()
}

// Cancel asks to leave the checkout. A pristine form exits immediately; a
// dirty one opens the exit-confirmation overlay instead.
func (s *Session) Cancel() View {
	s.mu.Lock()
	if s.form != initialForm() {
		s.exitConfirm = true
		v := s.viewLocked()
		s.mu.Unlock()
		return v
	}
	v := s.viewLocked()
	s.mu.Unlock()

	s.navigate("/")
	return v
}

// DismissExit closes the exit-confirmation overlay and stays in checkout.
func (s *Session) DismissExit() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitConfirm = false
	return s.viewLocked()
}

// ConfirmExit leaves the checkout for the catalog and then clears the cart.
// Navigation happens first: clearing before navigating could tear down the
// summary view while it still renders the cart.
func (s *Session) ConfirmExit() View {
	s.mu.Lock()
	s.exitConfirm = false
	v := s.viewLocked()
	s.mu.Unlock()

	s.navigate("/")
	s.store.Dispatch(appstate.ClearCart{})
	return v
}

// Close marks the session as torn down. Results of in-flight payment or
// order calls arriving afterwards are discarded, not applied.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Submit runs the final pipeline: defensive payment validation, the charge,
// order creation, then cart clear and confirmation. Every failure path
// surfaces a message, releases the processing flag and returns the shopper
// to the payment step with all data intact.
func (s *Session) Submit(ctx context.Context) (_ View, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return View{}, ErrSessionClosed
	}
	if s.processing {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, ErrSubmitInFlight
	}
	s.processing = true
	form := s.form
	items := s.items
	total := s.total
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("checkout %s: unexpected panic during submission: %v", s.id, r)
			s.notify.Show("Error inesperado al procesar la orden", appstate.ToastError, 0)
			s.release()
			err = fmt.Errorf("unexpected error during submission: %v", r)
		}
	}()

	// Defensive re-validation of the payment data before charging.
	if errs, ok := ValidatePaymentData(form, s.now()); !ok {
		s.notify.Show(joinErrors(errs), appstate.ToastError, 0)
		s.mu.Lock()
		s.errors = errs
		s.processing = false
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}

	result, err := s.charge(ctx, form, total)
	if s.discarded() {
		return View{}, ErrSessionClosed
	}
	if err != nil {
		s.notify.Show(err.Error(), appstate.ToastError, 0)
		s.release()
		v := s.View()
		return v, nil
	}
	s.notify.Show("¡Pago procesado exitosamente!", appstate.ToastSuccess, 0)

	o, err := s.orders.Create(ctx, s.orderRequest(form, items, result))
	if s.discarded() {
		return View{}, ErrSessionClosed
	}
	if err != nil {
		log.Printf("checkout %s: order creation failed: %v", s.id, err)
		s.notify.Show("Error al crear la orden. Inténtalo de nuevo.", appstate.ToastError, 0)
		s.release()
		v := s.View()
		return v, nil
	}

	s.store.Dispatch(appstate.ClearCart{})

	s.mu.Lock()
	s.processing = false
	s.confirmation = &Confirmation{
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.CreatedAt.Format("02/01/2006"),
		CustomerName:  form.Nombre + " " + form.Apellido,
		CustomerEmail: form.Email,
		Total:         o.Total,
		Items:         items,
		TransactionID: result.TransactionID,
		PaymentMethod: form.Method,
	}
	v := s.viewLocked()
	s.mu.Unlock()

	s.navigate("/confirmacion")
	s.notify.Show("¡Orden creada exitosamente!", appstate.ToastSuccess, 0)
	return v, nil
}

func (s *Session) charge(ctx context.Context, form Form, total float64) (*payment.Result, error) {
	if form.Method.IsWallet() {
		s.notify.Show(fmt.Sprintf("Procesando pago con %s...", form.Method), appstate.ToastInfo, 0)
		return s.payments.ChargeWallet(ctx, payment.WalletPayment{
			Method:      form.Method,
			PhoneNumber: form.Telefono,
			Amount:      total,
		})
	}

	s.notify.Show("Procesando pago con tarjeta...", appstate.ToastInfo, 0)
	return s.payments.ChargeCard(ctx, payment.CardPayment{
		CardNumber:     form.CardNumber,
		CardName:       form.CardName,
		ExpirationDate: form.Expiration,
		CVV:            form.CVV,
		Amount:         total,
	})
}

func (s *Session) orderRequest(form Form, items []appstate.CartLine, result *payment.Result) order.CreateRequest {
	var userID string
	if identity := s.store.Snapshot().Identity; identity != nil {
		userID = identity.UserID
	}

	orderItems := make([]order.ItemInput, 0, len(items))
	for _, line := range items {
		orderItems = append(orderItems, order.ItemInput{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Size:     line.Size,
		})
	}

	return order.CreateRequest{
		UserID: userID,
		Items:  orderItems,
		Shipping: order.ShippingInput{
			FullName:   form.Nombre + " " + form.Apellido,
			Email:      form.Email,
			Phone:      form.Telefono,
			Address:    form.Direccion,
			City:       form.Ciudad,
			State:      form.Departamento,
			PostalCode: form.CodigoPostal,
		},
		Payment: order.PaymentInput{
			Method:        string(form.Method),
			TransactionID: result.TransactionID,
			Status:        string(order.PaymentCompleted),
		},
		Subtotal:     s.subtotal,
		ShippingCost: ShippingCost,
		Total:        s.total,
	}
}

// discarded reports whether the session was closed while an async call ran.
func (s *Session) discarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Release the flag for completeness; nobody can observe it now.
		s.processing = false
		return true
	}
	return false
}

func (s *Session) release() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}
