package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/core/domain"
)

// OrderItemInput is a single requested line.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// CreateOrderInput is the DTO passed from the transport layer to OrderService.
type CreateOrderInput struct {
	Items      []OrderItemInput
	TotalPrice decimal.Decimal
}

type OrderService interface {
	CreateOrder(ctx context.Context, principal domain.Principal, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, principal domain.Principal, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListUserOrders(ctx context.Context, principal domain.Principal) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, principal domain.Principal, id int64, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, principal domain.Principal, id int64) error
}
