package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/service"
)

func newRequestContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret")
	signed, err := tokens.Issue(7, "alice@example.com")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, rec := newRequestContext("Bearer " + signed)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.UserID != 7 || p.Email != "alice@example.com" {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tokens := service.NewTokenService("secret")
	other, _ := service.NewTokenService("other-secret").Issue(7, "alice@example.com")

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrUnauthenticated},
		{"wrong scheme", "Token abc", domain.ErrInvalidToken},
		{"empty token", "Bearer ", domain.ErrInvalidToken},
		{"garbage token", "Bearer not-a-token", domain.ErrInvalidToken},
		{"foreign signature", "Bearer " + other, domain.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newRequestContext(tc.header)
			handler := Auth(tokens)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPrincipalFrom_Missing(t *testing.T) {
	c, _ := newRequestContext("")
	if _, ok := PrincipalFrom(c); ok {
		t.Fatalf("expected no principal on an unauthenticated context")
	}
}
