package order

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orders      map[string]*Order
	stockCalls  []string
	stockErr    error
	createErr   error
	lastStatus  Status
	lastPayment PaymentStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[string]*Order{}}
}

func (f *fakeRepo) CreateOrder(_ context.Context, o *Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[o.ID.String()] = o
	return nil
}

func (f *fakeRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order not found")
	}
	return o, nil
}

func (f *fakeRepo) GetOrderByNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order not found")
}

func (f *fakeRepo) ListOrdersByUser(_ context.Context, userID string) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.UserID != nil && o.UserID.String() == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	f.lastStatus = status
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeRepo) UpdatePaymentStatus(_ context.Context, id string, status PaymentStatus) error {
	f.lastPayment = status
	return nil
}

func (f *fakeRepo) AdjustProductStock(_ context.Context, productID string, quantity int) error {
	f.stockCalls = append(f.stockCalls, fmt.Sprintf("%s:%d", productID, quantity))
	return f.stockErr
}

func testService(repo Repository) *service {
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) },
		rand: func(n int) int { return 42 },
	}
}

func validRequest() CreateRequest {
	return CreateRequest{
		Items: []ItemInput{{ID: "polo-chimu", Name: "Polo Chimu", Price: 149, Quantity: 2, Size: "M"}},
		Shipping: ShippingInput{
			FullName: "Ana Quispe",
			Email:    "ana@chimu.pe",
			Phone:    "987654321",
			Address:  "Av. Larco 345",
			City:     "Trujillo",
			State:    "La Libertad",
		},
		Payment:      PaymentInput{Method: "tarjeta", TransactionID: "TXN-123", Status: "completed"},
		Subtotal:     298,
		ShippingCost: 15,
		Total:        313,
	}
}

func TestCreateOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	millis := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, fmt.Sprintf("CHI-%d-42", millis), o.OrderNumber)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "TXN-123", o.PaymentTransactionID)
	assert.Nil(t, o.UserID, "guest checkout leaves user unset")
	require.Len(t, o.Items, 1)
	assert.Equal(t, "polo-chimu", o.Items[0].ProductID)
	assert.Equal(t, 313.0, o.Total)

	assert.Equal(t, []string{"polo-chimu:2"}, repo.stockCalls)
}

func TestCreateOrderNumberShape(t *testing.T) {
	repo := newFakeRepo()
	svc := &service{
		repo: repo,
		now:  time.Now,
		rand: func(n int) int { return n - 1 },
	}

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CHI-\d{13}-\d{1,3}$`), o.OrderNumber)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := testService(newFakeRepo())

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"no items", func(r *CreateRequest) { r.Items = nil }},
		{"zero quantity", func(r *CreateRequest) { r.Items[0].Quantity = 0 }},
		{"missing shipping name", func(r *CreateRequest) { r.Shipping.FullName = "" }},
		{"missing email", func(r *CreateRequest) { r.Shipping.Email = "" }},
		{"malformed user id", func(r *CreateRequest) { r.UserID = "not-a-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestCreateOrderWithUser(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	uid := uuid.New()
	req := validRequest()
	req.UserID = uid.String()

	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, o.UserID)
	assert.Equal(t, uid, *o.UserID)

	listed, err := svc.ListByUser(context.Background(), uid.String())
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateOrderSurvivesStockFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.stockErr = fmt.Errorf("stock table locked")
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err, "stock adjustment is best-effort")
	assert.Contains(t, repo.orders, o.ID.String())
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		from  Status
		to    string
		valid bool
	}{
		{StatusPending, "processing", true},
		{StatusPending, "cancelled", true},
		{StatusPending, "shipped", false},
		{StatusProcessing, "shipped", true},
		{StatusProcessing, "delivered", false},
		{StatusShipped, "delivered", true},
		{StatusShipped, "cancelled", false},
		{StatusDelivered, "processing", false},
		{StatusCancelled, "pending", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			repo := newFakeRepo()
			svc := testService(repo)

			o, err := svc.Create(context.Background(), validRequest())
			require.NoError(t, err)
			o.Status = tt.from

			updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: tt.to})
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, Status(tt.to), updated.Status)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateStatusCaseInsensitive(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "PROCESSING"})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, updated.Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(context.Background(), o.ID.String(), UpdatePaymentStatusRequest{PaymentStatus: "refunded"})
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(context.Background(), o.ID.String(), UpdatePaymentStatusRequest{PaymentStatus: "voided"})
	assert.Error(t, err)
}

func TestCancelOnlyPending(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), o.ID.String()))
	assert.Equal(t, StatusCancelled, repo.lastStatus)

	shipped, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	shipped.Status = StatusShipped
	assert.Error(t, svc.Cancel(context.Background(), shipped.ID.String()))
}

func TestGetByNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	o, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	found, err := svc.GetByNumber(context.Background(), o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)

	_, err = svc.GetByNumber(context.Background(), "CHI-0-0")
	assert.Error(t, err)
}
