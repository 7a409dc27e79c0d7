package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/core/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}
