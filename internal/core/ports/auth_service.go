package ports

import (
	"context"

	"github.com/99minutos/order-service/internal/core/domain"
)

// RegisterInput carries the fields needed to create an identity.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.User, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(subjectID int64, email string) (string, error)
}

// TokenVerifier checks a token and returns the identity it proves.
// Any failure is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// AccessGuard authorizes a verified principal.
type AccessGuard interface {
	// RequireAdmin re-reads the principal's user record and fails with
	// domain.ErrUserNotFound or domain.ErrForbidden.
	RequireAdmin(ctx context.Context, principal domain.Principal) (*domain.User, error)
	// Authorize allows the owner of res or any admin. res must already be loaded.
	Authorize(ctx context.Context, principal domain.Principal, res domain.Resource) error
}
