package handler

import (
	"github.com/shopspring/decimal"

	"github.com/99minutos/order-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Products ---

type productRequest struct {
	Name        string          `json:"name"        validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"       swaggertype:"number"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"    validate:"omitempty,url"`
}

type productResponse struct {
	Message string          `json:"message,omitempty"`
	Product *domain.Product `json:"product"`
}

type productsResponse struct {
	Products []*domain.Product `json:"products"`
}

// --- Orders ---

type orderItemRequest struct {
	ID       int64           `json:"id"       validate:"required,gt=0"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"    swaggertype:"number"`
}

// createOrderRequest mirrors the storefront payload. An empty products list
// is reported by the order service, not by the validator.
type createOrderRequest struct {
	Products   []orderItemRequest `json:"products"   validate:"dive"`
	TotalPrice decimal.Decimal    `json:"totalPrice" swaggertype:"number"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order"`
}

type ordersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

// --- Payments ---

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount"        swaggertype:"number"`
	Method        string          `json:"method"        validate:"required,oneof='Credit Card' PayPal 'Bank Transfer'"`
	TransactionID string          `json:"transactionId" validate:"required"`
}

type paymentResponse struct {
	Message string          `json:"message,omitempty"`
	Payment *domain.Payment `json:"payment"`
}

type paymentsResponse struct {
	Payments []*domain.Payment `json:"payments"`
}
