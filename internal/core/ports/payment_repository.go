package ports

import (
	"context"

	"github.com/99minutos/order-service/internal/core/domain"
)

// PaymentRepository stores passive payment records.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
}
