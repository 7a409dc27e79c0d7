package domain

import "errors"

// Input and business-rule violations (400).
var ErrValidation = errors.New("validation failed")
var ErrEmptyOrder = errors.New("order must contain at least one product")
var ErrUnknownProduct = errors.New("one or more products do not exist")
var ErrInvalidStatus = errors.New("invalid order status")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrStatusConflict = errors.New("order status changed concurrently")
var ErrProductInUse = errors.New("product is referenced by existing orders")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")

// Authentication (401).
var ErrUnauthenticated = errors.New("access denied")
var ErrInvalidToken = errors.New("invalid token")

// Authorization (403).
var ErrForbidden = errors.New("access forbidden")

// Missing entities (404).
var ErrUserNotFound = errors.New("user not found")
var ErrProductNotFound = errors.New("product not found")
var ErrOrderNotFound = errors.New("order not found")
var ErrPaymentNotFound = errors.New("payment not found")
