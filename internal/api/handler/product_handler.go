package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-service/internal/core/ports"
)

// ProductHandler serves the catalog. Reads are public; writes are mounted
// behind RequireAdmin by the router.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productsResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: products})
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: product})
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Message: "product created successfully", Product: product})
}

// Update handles PUT /api/products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), id, toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Message: "product updated successfully", Product: product})
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "product deleted successfully"})
}
