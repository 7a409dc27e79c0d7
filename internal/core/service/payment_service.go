package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// PaymentService stores payment records against orders. Payments carry no
// business rules beyond field validation: they are created Pending and never
// transition here.
type PaymentService struct {
	payments ports.PaymentRepository
	orders   ports.OrderRepository
	guard    ports.AccessGuard
	log      zerolog.Logger
}

func NewPaymentService(payments ports.PaymentRepository, orders ports.OrderRepository, guard ports.AccessGuard, log zerolog.Logger) *PaymentService {
	return &PaymentService{payments: payments, orders: orders, guard: guard, log: log}
}

// Record attaches a Pending payment to an order the principal owns (or any
// order, for an admin).
func (s *PaymentService) Record(ctx context.Context, p domain.Principal, orderID int64, in ports.RecordPaymentInput) (*domain.Payment, error) {
	method := domain.PaymentMethod(in.Method)
	switch {
	case in.Amount.IsNegative():
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	case !method.Valid():
		return nil, fmt.Errorf("%w: method must be one of: Credit Card, PayPal, Bank Transfer", domain.ErrValidation)
	case strings.TrimSpace(in.TransactionID) == "":
		return nil, fmt.Errorf("%w: transactionId is required", domain.ErrValidation)
	}

	order, err := s.loadOrder(ctx, p, orderID)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.Create(ctx, &domain.Payment{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        in.Amount,
		Method:        method,
		TransactionID: strings.TrimSpace(in.TransactionID),
		Status:        domain.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info().
		Str("payment_id", payment.ID).
		Int64("order_id", order.ID).
		Str("method", string(method)).
		Msg("payment recorded")
	return payment, nil
}

// Get returns a payment visible to the principal.
func (s *PaymentService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListForOrder returns the payments recorded against an order visible to the principal.
func (s *PaymentService) ListForOrder(ctx context.Context, p domain.Principal, orderID int64) ([]*domain.Payment, error) {
	if _, err := s.loadOrder(ctx, p, orderID); err != nil {
		return nil, err
	}
	return s.payments.ListByOrder(ctx, orderID)
}

func (s *PaymentService) loadOrder(ctx context.Context, p domain.Principal, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, order); err != nil {
		return nil, err
	}
	return order, nil
}
