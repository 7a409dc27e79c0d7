package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/api/metrics"
	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/orders. The order is owned by the caller.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Ordered products"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.OrdersRejectedTotal.WithLabelValues("validation").Inc()
		}
		return err
	}

	order, err := h.service.CreateOrder(c.Request().Context(), p, toCreateOrderInput(req))
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			metrics.OrdersRejectedTotal.WithLabelValues(reason).Inc()
		}
		return err
	}
	metrics.OrdersCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, orderResponse{Message: "order created successfully", Order: order})
}

// List handles GET /api/orders (admin only).
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ordersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

// Mine handles GET /api/orders/mine.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ordersResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/orders/mine [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListUserOrders(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

// UpdateStatus handles PUT /api/orders/:id/status (admin only).
//
// @Summary      Change an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Order ID"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return err
	}
	metrics.OrderStatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()

	return c.JSON(http.StatusOK, orderResponse{Message: "order status updated successfully", Order: order})
}

// Delete handles DELETE /api/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "order deleted successfully"})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	}
	return ""
}
