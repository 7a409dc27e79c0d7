package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
	"github.com/99minutos/order-service/internal/core/service"
)

const testSecret = "router-secret"

// --- Stubs ---

// roleGuard treats user 1 as the only admin.
type roleGuard struct{}

func (roleGuard) RequireAdmin(_ context.Context, p domain.Principal) (*domain.User, error) {
	if p.UserID != 1 {
		return nil, domain.ErrForbidden
	}
	return &domain.User{ID: 1, Role: domain.RoleAdmin}, nil
}

func (roleGuard) Authorize(_ context.Context, p domain.Principal, res domain.Resource) error {
	if p.UserID == 1 || res.OwnerID() == p.UserID {
		return nil
	}
	return domain.ErrForbidden
}

// ordersStub embeds the interface so only the methods under test need bodies.
type ordersStub struct {
	ports.OrderService
	orders map[int64]*domain.Order
}

func (s *ordersStub) CreateOrder(_ context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	return &domain.Order{ID: 100, UserID: p.UserID, Status: domain.OrderPending}, nil
}

func (s *ordersStub) GetOrder(ctx context.Context, p domain.Principal, id int64) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := (roleGuard{}).Authorize(ctx, p, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *ordersStub) ListOrders(context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *ordersStub) UpdateStatus(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
	deadline, _ := ctx.Deadline()
	if status == "SLOW" && !deadline.IsZero() {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, domain.ErrInvalidTransition
}

type productsStub struct {
	ports.ProductService
}

func (productsStub) List(context.Context) ([]*domain.Product, error) {
	return []*domain.Product{{ID: 1, Name: "Lamp"}}, nil
}

func (productsStub) Create(_ context.Context, in ports.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: 2, Name: in.Name}, nil
}

// --- Helpers ---

func newTestRouter(t *testing.T, timeout time.Duration) (*echo.Echo, *service.TokenService) {
	t.Helper()
	tokens := service.NewTokenService(testSecret)
	e := NewRouter(Deps{
		Log:            zerolog.Nop(),
		RequestTimeout: timeout,
		Tokens:         tokens,
		Guard:          roleGuard{},
		Products:       productsStub{},
		Orders: &ordersStub{orders: map[int64]*domain.Order{
			7: {ID: 7, UserID: 2, Status: domain.OrderPending},
		}},
		MetricsRegisterer: prometheus.NewRegistry(),
	})
	return e, tokens
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func issue(t *testing.T, tokens *service.TokenService, id int64) string {
	t.Helper()
	tok, err := tokens.Issue(id, "user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

// --- Tests ---

func TestRouter_AuthGate(t *testing.T) {
	e, tokens := newTestRouter(t, 0)

	code, resp := do(t, e, http.MethodGet, "/api/orders/7", "", "")
	if code != http.StatusUnauthorized || resp["error"] != "access denied" {
		t.Fatalf("missing token: got %d %v", code, resp)
	}

	code, resp = do(t, e, http.MethodGet, "/api/orders/7", "garbage", "")
	if code != http.StatusUnauthorized || resp["error"] != "invalid token" {
		t.Fatalf("bad token: got %d %v", code, resp)
	}

	foreign, _ := service.NewTokenService("another-secret").Issue(2, "user@example.com")
	if code, _ := do(t, e, http.MethodGet, "/api/orders/7", foreign, ""); code != http.StatusUnauthorized {
		t.Fatalf("foreign token: expected 401, got %d", code)
	}

	if code, _ := do(t, e, http.MethodGet, "/api/orders/7", issue(t, tokens, 2), ""); code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", code)
	}
}

func TestRouter_Ownership(t *testing.T) {
	e, tokens := newTestRouter(t, 0)

	if code, _ := do(t, e, http.MethodGet, "/api/orders/7", issue(t, tokens, 3), ""); code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/orders/7", issue(t, tokens, 1), ""); code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/orders/8", issue(t, tokens, 3), ""); code != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", code)
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	e, tokens := newTestRouter(t, 0)
	user, admin := issue(t, tokens, 2), issue(t, tokens, 1)

	if code, _ := do(t, e, http.MethodGet, "/api/orders", user, ""); code != http.StatusForbidden {
		t.Fatalf("list as user: expected 403, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/orders", admin, ""); code != http.StatusOK {
		t.Fatalf("list as admin: expected 200, got %d", code)
	}

	body := `{"name":"Desk"}`
	if code, _ := do(t, e, http.MethodPost, "/api/products", "", body); code != http.StatusUnauthorized {
		t.Fatalf("anonymous product create: expected 401, got %d", code)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/products", user, body); code != http.StatusForbidden {
		t.Fatalf("user product create: expected 403, got %d", code)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/products", admin, body); code != http.StatusCreated {
		t.Fatalf("admin product create: expected 201, got %d", code)
	}

	if code, _ := do(t, e, http.MethodGet, "/api/products", "", ""); code != http.StatusOK {
		t.Fatalf("public product list: expected 200, got %d", code)
	}

	code, resp := do(t, e, http.MethodPut, "/api/orders/7/status", admin, `{"status":"PENDING"}`)
	if code != http.StatusBadRequest || resp["error"] != "invalid status transition" {
		t.Fatalf("bad transition: got %d %v", code, resp)
	}
}

func TestRouter_CreateOrderErrors(t *testing.T) {
	e, tokens := newTestRouter(t, 0)
	tok := issue(t, tokens, 2)

	code, resp := do(t, e, http.MethodPost, "/api/orders", tok, `{"products":[],"totalPrice":0}`)
	if code != http.StatusBadRequest || resp["error"] != "order must contain at least one product" {
		t.Fatalf("empty order: got %d %v", code, resp)
	}

	code, _ = do(t, e, http.MethodPost, "/api/orders", tok, `{"products":[{"id":1,"quantity":1,"price":1}],"totalPrice":1}`)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", code)
	}
}

func TestRouter_RequestTimeoutIsInternalError(t *testing.T) {
	e, tokens := newTestRouter(t, 20*time.Millisecond)

	code, resp := do(t, e, http.MethodPut, "/api/orders/7/status", issue(t, tokens, 1), `{"status":"SLOW"}`)
	if code != http.StatusInternalServerError || resp["error"] != "internal server error" {
		t.Fatalf("timeout: got %d %v", code, resp)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	e, _ := newTestRouter(t, 0)

	if code, _ := do(t, e, http.MethodGet, "/health", "", ""); code != http.StatusOK {
		t.Fatalf("/health: expected 200, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/health/ready", "", ""); code != http.StatusOK {
		t.Fatalf("/health/ready without checks: expected 200, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/no/such/route", "", ""); code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", code)
	}
}
