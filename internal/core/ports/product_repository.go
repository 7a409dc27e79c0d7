package ports

import (
	"context"
	"time"

	"github.com/99minutos/order-service/internal/core/domain"
)

// ProductRepository persists the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Update overwrites the mutable fields of p. Missing rows yield domain.ErrProductNotFound.
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

// Catalog is the read side used by order creation.
type Catalog interface {
	// FindMany returns the products that exist among ids, in no particular
	// order. Unknown ids are silently absent from the result.
	FindMany(ctx context.Context, ids []int64) ([]*domain.Product, error)
}

// ProductCache is a best-effort read-through cache for single products.
type ProductCache interface {
	// Get returns (nil, false, nil) on a miss.
	Get(ctx context.Context, id int64) (*domain.Product, bool, error)
	Set(ctx context.Context, p *domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, ids ...int64) error
}
