package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// Guard authorizes principals by role or by resource ownership. Roles are
// always re-read from the credential store, so a demotion takes effect on the
// next request.
type Guard struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewGuard(users ports.UserRepository, log zerolog.Logger) *Guard {
	return &Guard{users: users, log: log}
}

// RequireAdmin fails with domain.ErrUserNotFound when the principal's account
// is gone and domain.ErrForbidden when it is not an admin.
func (g *Guard) RequireAdmin(ctx context.Context, p domain.Principal) (*domain.User, error) {
	user, err := g.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("require admin: %w", err)
	}
	if !user.IsAdmin() {
		g.log.Debug().Int64("user_id", p.UserID).Msg("admin access denied")
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// Authorize allows the owner of res or any admin. Callers load res first so
// that a missing resource surfaces as its own not-found error.
func (g *Guard) Authorize(ctx context.Context, p domain.Principal, res domain.Resource) error {
	if res.OwnerID() == p.UserID {
		return nil
	}

	user, err := g.users.FindByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", domain.ResourceKind(res), err)
	}
	if user.IsAdmin() {
		return nil
	}

	g.log.Debug().
		Int64("user_id", p.UserID).
		Str("resource", domain.ResourceKind(res)).
		Msg("ownership check failed")
	return domain.ErrForbidden
}
