package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/api/metrics"
	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

type stubOrderService struct {
	createFn func(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error)
	getFn    func(ctx context.Context, p domain.Principal, id int64) (*domain.Order, error)
	listFn   func(ctx context.Context) ([]*domain.Order, error)
	mineFn   func(ctx context.Context, p domain.Principal) ([]*domain.Order, error)
	statusFn func(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error)
	deleteFn func(ctx context.Context, p domain.Principal, id int64) error
}

func (s *stubOrderService) CreateOrder(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, p, in)
}

func (s *stubOrderService) GetOrder(ctx context.Context, p domain.Principal, id int64) (*domain.Order, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubOrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.listFn(ctx)
}

func (s *stubOrderService) ListUserOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	return s.mineFn(ctx, p)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
	return s.statusFn(ctx, p, id, status)
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, p domain.Principal, id int64) error {
	return s.deleteFn(ctx, p, id)
}

var alice = &domain.Principal{UserID: 1, Email: "alice@example.com"}

func TestOrderHandler_Create_Success(t *testing.T) {
	before := testutil.ToFloat64(metrics.OrdersCreatedTotal)

	stub := &stubOrderService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
			if p.UserID != alice.UserID {
				t.Fatalf("order must be owned by the caller, got %+v", p)
			}
			if len(in.Items) != 2 || in.Items[0].ProductID != 10 || in.Items[0].Quantity != 2 {
				t.Fatalf("unexpected items: %+v", in.Items)
			}
			if !in.Items[0].Price.Equal(decimal.NewFromInt(10)) || !in.TotalPrice.Equal(decimal.NewFromInt(25)) {
				t.Fatalf("prices not decoded: %+v", in)
			}
			return &domain.Order{
				ID: 5, UserID: p.UserID, Status: domain.OrderPending, TotalPrice: in.TotalPrice,
				Items: []domain.OrderItem{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 1}},
			}, nil
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/orders",
		`{"products":[{"id":10,"quantity":2,"price":10},{"id":11,"quantity":1,"price":"5"}],"totalPrice":25}`, alice)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	order, ok := decodeBody(t, rec)["order"].(map[string]any)
	if !ok || order["status"] != "PENDING" || len(order["orderItems"].([]any)) != 2 {
		t.Fatalf("unexpected order payload: %+v", order)
	}
	if got := testutil.ToFloat64(metrics.OrdersCreatedTotal); got != before+1 {
		t.Fatalf("expected created counter to increase, got %v -> %v", before, got)
	}
}

func TestOrderHandler_Create_Rejections(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
			if len(in.Items) == 0 {
				return nil, domain.ErrEmptyOrder
			}
			return nil, domain.ErrUnknownProduct
		},
	}
	handler := NewOrderHandler(stub)

	emptyBefore := testutil.ToFloat64(metrics.OrdersRejectedTotal.WithLabelValues("empty_order"))
	c, _ := newTestContext(http.MethodPost, "/api/orders", `{"products":[],"totalPrice":0}`, alice)
	if err := handler.Create(c); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
	if testutil.ToFloat64(metrics.OrdersRejectedTotal.WithLabelValues("empty_order")) != emptyBefore+1 {
		t.Fatalf("empty order rejection not counted")
	}

	c, _ = newTestContext(http.MethodPost, "/api/orders", `{"products":[{"id":999,"quantity":1,"price":1}],"totalPrice":1}`, alice)
	if err := handler.Create(c); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestOrderHandler_Create_InvalidItems(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/orders", `{"products":[{"id":1,"quantity":0,"price":1}],"totalPrice":1}`, alice)
	err := handler.Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := err.Error(); got != "validation failed: products[0].quantity is required" {
		t.Fatalf("unexpected message %q", got)
	}

	c, _ = newTestContext(http.MethodPost, "/api/orders", `{"products":"nope"}`, alice)
	if err := handler.Create(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 bind error, got %v", err)
	}
}

func TestOrderHandler_Get(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(ctx context.Context, p domain.Principal, id int64) (*domain.Order, error) {
			switch id {
			case 1:
				return &domain.Order{ID: 1, UserID: p.UserID}, nil
			case 2:
				return nil, domain.ErrForbidden
			}
			return nil, domain.ErrOrderNotFound
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/orders/1", "", alice)
	if err := handler.Get(withID(c, "1")); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}

	c, _ = newTestContext(http.MethodGet, "/api/orders/2", "", alice)
	if err := handler.Get(withID(c, "2")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c, _ = newTestContext(http.MethodGet, "/api/orders/3", "", alice)
	if err := handler.Get(withID(c, "3")); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	c, _ = newTestContext(http.MethodGet, "/api/orders/abc", "", alice)
	if err := handler.Get(withID(c, "abc")); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric id, got %v", err)
	}
}

func TestOrderHandler_ListAndMine(t *testing.T) {
	stub := &stubOrderService{
		listFn: func(ctx context.Context) ([]*domain.Order, error) {
			return []*domain.Order{{ID: 1}, {ID: 2}}, nil
		},
		mineFn: func(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
			return []*domain.Order{{ID: 1, UserID: p.UserID}}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/orders", "", alice)
	if err := handler.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if n := len(decodeBody(t, rec)["orders"].([]any)); n != 2 {
		t.Fatalf("expected 2 orders, got %d", n)
	}

	c, rec = newTestContext(http.MethodGet, "/api/orders/mine", "", alice)
	if err := handler.Mine(c); err != nil {
		t.Fatalf("Mine error: %v", err)
	}
	if n := len(decodeBody(t, rec)["orders"].([]any)); n != 1 {
		t.Fatalf("expected 1 order, got %d", n)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	stub := &stubOrderService{
		statusFn: func(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
			if status == "BOGUS" {
				return nil, domain.ErrInvalidStatus
			}
			return &domain.Order{ID: id, Status: domain.OrderStatus(status)}, nil
		},
	}
	handler := NewOrderHandler(stub)

	before := testutil.ToFloat64(metrics.OrderStatusTransitionsTotal.WithLabelValues("SHIPPED"))
	c, rec := newTestContext(http.MethodPut, "/api/orders/7/status", `{"status":"SHIPPED"}`, alice)
	if err := handler.UpdateStatus(withID(c, "7")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	order := decodeBody(t, rec)["order"].(map[string]any)
	if order["status"] != "SHIPPED" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if testutil.ToFloat64(metrics.OrderStatusTransitionsTotal.WithLabelValues("SHIPPED")) != before+1 {
		t.Fatalf("transition not counted")
	}

	c, _ = newTestContext(http.MethodPut, "/api/orders/7/status", `{"status":"BOGUS"}`, alice)
	if err := handler.UpdateStatus(withID(c, "7")); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	c, _ = newTestContext(http.MethodPut, "/api/orders/7/status", `{}`, alice)
	if err := handler.UpdateStatus(withID(c, "7")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a missing status, got %v", err)
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	var deleted int64
	stub := &stubOrderService{
		deleteFn: func(ctx context.Context, p domain.Principal, id int64) error {
			deleted = id
			return nil
		},
	}

	c, rec := newTestContext(http.MethodDelete, "/api/orders/9", "", alice)
	if err := NewOrderHandler(stub).Delete(withID(c, "9")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != 9 || rec.Code != http.StatusOK {
		t.Fatalf("expected order 9 deleted with 200, got %d / %d", deleted, rec.Code)
	}
}
