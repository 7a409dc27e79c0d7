package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// RequireAdmin lets the request through only if the authenticated caller is
// currently an ADMIN. The role is read from the user store on every request,
// so promotions and demotions apply immediately. Must run after Auth.
func RequireAdmin(guard ports.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, err := guard.RequireAdmin(c.Request().Context(), principal); err != nil {
				return err
			}
			return next(c)
		}
	}
}
