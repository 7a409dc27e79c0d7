package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

type stubPaymentService struct {
	recordFn func(ctx context.Context, p domain.Principal, orderID int64, in ports.RecordPaymentInput) (*domain.Payment, error)
	getFn    func(ctx context.Context, p domain.Principal, id string) (*domain.Payment, error)
	listFn   func(ctx context.Context, p domain.Principal, orderID int64) ([]*domain.Payment, error)
}

func (s *stubPaymentService) Record(ctx context.Context, p domain.Principal, orderID int64, in ports.RecordPaymentInput) (*domain.Payment, error) {
	return s.recordFn(ctx, p, orderID, in)
}

func (s *stubPaymentService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Payment, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubPaymentService) ListForOrder(ctx context.Context, p domain.Principal, orderID int64) ([]*domain.Payment, error) {
	return s.listFn(ctx, p, orderID)
}

func TestPaymentHandler_Record(t *testing.T) {
	stub := &stubPaymentService{
		recordFn: func(ctx context.Context, p domain.Principal, orderID int64, in ports.RecordPaymentInput) (*domain.Payment, error) {
			if orderID != 12 || in.Method != "Credit Card" || !in.Amount.Equal(decimal.NewFromInt(30)) {
				t.Fatalf("unexpected input: %d %+v", orderID, in)
			}
			return &domain.Payment{ID: "abc", OrderID: orderID, UserID: p.UserID, Status: domain.PaymentPending}, nil
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/orders/12/payments",
		`{"amount":30,"method":"Credit Card","transactionId":"tx-9"}`, alice)
	if err := NewPaymentHandler(stub).Record(withID(c, "12")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	payment := decodeBody(t, rec)["payment"].(map[string]any)
	if payment["status"] != "Pending" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestPaymentHandler_Record_UnknownMethod(t *testing.T) {
	stub := &stubPaymentService{
		recordFn: func(ctx context.Context, p domain.Principal, orderID int64, in ports.RecordPaymentInput) (*domain.Payment, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newTestContext(http.MethodPost, "/api/orders/12/payments", `{"amount":1,"method":"Cash","transactionId":"t"}`, alice)
	if err := NewPaymentHandler(stub).Record(withID(c, "12")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPaymentHandler_GetAndList(t *testing.T) {
	stub := &stubPaymentService{
		getFn: func(ctx context.Context, p domain.Principal, id string) (*domain.Payment, error) {
			if id != "abc" {
				return nil, domain.ErrPaymentNotFound
			}
			return &domain.Payment{ID: id}, nil
		},
		listFn: func(ctx context.Context, p domain.Principal, orderID int64) ([]*domain.Payment, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewPaymentHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/payments/abc", "", alice)
	if err := handler.Get(withID(c, "abc")); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("Get: %d %v", rec.Code, err)
	}
	c, _ = newTestContext(http.MethodGet, "/api/payments/zzz", "", alice)
	if err := handler.Get(withID(c, "zzz")); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	c, _ = newTestContext(http.MethodGet, "/api/orders/3/payments", "", alice)
	if err := handler.ListForOrder(withID(c, "3")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
