package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

const principalKey = "principal"

// Auth validates the bearer token and injects the caller's principal into
// the request context. It never touches the user store.
func Auth(tokens ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrInvalidToken
			}

			principal, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			SetPrincipal(c, *principal)
			return next(c)
		}
	}
}

// SetPrincipal stores the authenticated caller on the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
