package order

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines the order management business logic.
type Service interface {
	// Create persists a new order with its frozen line items and adjusts
	// product stock and sales counters.
	Create(ctx context.Context, req CreateRequest) (*Order, error)

	// GetByID retrieves a full order with its items by UUID.
	GetByID(ctx context.Context, id string) (*Order, error)

	// GetByNumber retrieves an order by its CHI- order number.
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListByUser returns all orders placed by a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// UpdatePaymentStatus records a payment-side change.
	UpdatePaymentStatus(ctx context.Context, id string, req UpdatePaymentStatusRequest) (*Order, error)

	// Cancel cancels a pending order.
	Cancel(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	now  func() time.Time
	rand func(n int) int
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now, rand: rand.Intn}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	if req.Shipping.FullName == "" || req.Shipping.Email == "" {
		return nil, fmt.Errorf("shipping name and email are required")
	}

	var items []*Item
	for _, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", in.ID)
		}
		items = append(items, &Item{
			ID:           uuid.New(),
			ProductID:    in.ID,
			ProductName:  in.Name,
			ProductPrice: in.Price,
			Quantity:     in.Quantity,
			Size:         in.Size,
		})
	}

	paymentStatus := PaymentStatus(req.Payment.Status)
	if paymentStatus == "" {
		paymentStatus = PaymentPending
	}

	o := &Order{
		ID:          uuid.New(),
		OrderNumber: s.generateOrderNumber(),
		Status:      StatusPending,

		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		Total:        req.Total,

		ShippingName:       req.Shipping.FullName,
		ShippingEmail:      req.Shipping.Email,
		ShippingPhone:      req.Shipping.Phone,
		ShippingAddress:    req.Shipping.Address,
		ShippingCity:       req.Shipping.City,
		ShippingState:      req.Shipping.State,
		ShippingPostalCode: req.Shipping.PostalCode,

		PaymentMethod:        req.Payment.Method,
		PaymentStatus:        paymentStatus,
		PaymentTransactionID: req.Payment.TransactionID,

		Items:     items,
		CreatedAt: s.now(),
	}

	if req.UserID != "" {
		uid, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id: %w", err)
		}
		o.UserID = &uid
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	// Stock/sales adjustment is best-effort; the order is already placed.
	for _, in := range req.Items {
		if err := s.repo.AdjustProductStock(ctx, in.ID, in.Quantity); err != nil {
			log.Printf("order %s: failed to adjust stock for product %s: %v", o.OrderNumber, in.ID, err)
		}
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	newStatus := Status(strings.ToLower(req.Status))
	valid := false
	for _, allowed := range validTransitions[o.Status] {
		if allowed == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id string, req UpdatePaymentStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	status := PaymentStatus(strings.ToLower(req.PaymentStatus))
	switch status {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
	default:
		return nil, fmt.Errorf("unknown payment status %q", req.PaymentStatus)
	}
	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.PaymentStatus = status
	return o, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if o.Status != StatusPending {
		return fmt.Errorf("only pending orders can be cancelled (current: %s)", o.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// generateOrderNumber creates the storefront's order number:
// CHI-<epoch-millis>-<0..999>.
func (s *service) generateOrderNumber() string {
	return fmt.Sprintf("CHI-%d-%d", s.now().UnixMilli(), s.rand(1000))
}
