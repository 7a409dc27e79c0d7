package ports

import (
	"context"

	"github.com/99minutos/order-service/internal/core/domain"
)

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	// Create writes the order and all of its items in one transaction and
	// fills in the generated ids and timestamps. Nothing is persisted on error.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	// UpdateStatus moves the order from one status to another only if it is
	// still in from. A lost race yields domain.ErrStatusConflict.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error)
	// Delete removes the order and its items.
	Delete(ctx context.Context, id int64) error
}
