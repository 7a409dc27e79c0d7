package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/core/domain"
)

// RecordPaymentInput carries a payment submitted against an order.
type RecordPaymentInput struct {
	Amount        decimal.Decimal
	Method        string
	TransactionID string
}

type PaymentService interface {
	Record(ctx context.Context, principal domain.Principal, orderID int64, input RecordPaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.Payment, error)
	ListForOrder(ctx context.Context, principal domain.Principal, orderID int64) ([]*domain.Payment, error)
}
