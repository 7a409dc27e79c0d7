package ports

import (
	"context"

	"github.com/99minutos/order-service/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts the user and returns it with its generated id.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
