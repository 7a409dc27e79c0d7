package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/api/middleware"
	"github.com/99minutos/order-service/internal/core/domain"
)

// principal extracts the identity injected by the Auth middleware. A missing
// principal means the route was registered without Auth.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
