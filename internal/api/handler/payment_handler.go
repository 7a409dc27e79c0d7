package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/core/ports"
)

// PaymentHandler records and reads passive payment records.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Record handles POST /api/orders/:id/payments.
//
// @Summary      Record a payment for an order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Order ID"
// @Param        body  body      paymentRequest  true  "Payment"
// @Success      201   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id}/payments [post]
func (h *PaymentHandler) Record(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payment, err := h.service.Record(c.Request().Context(), p, orderID, toPaymentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, paymentResponse{Message: "payment recorded successfully", Payment: payment})
}

// ListForOrder handles GET /api/orders/:id/payments.
//
// @Summary      List the payments of an order
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  paymentsResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/payments [get]
func (h *PaymentHandler) ListForOrder(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	payments, err := h.service.ListForOrder(c.Request().Context(), p, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentsResponse{Payments: payments})
}

// Get handles GET /api/payments/:id.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  paymentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	payment, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentResponse{Payment: payment})
}
