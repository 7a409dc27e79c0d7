package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// DELIVERED and CANCELLED are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered, OrderCancelled},
}

// ParseOrderStatus returns the status named by s or ErrInvalidStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	switch st {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// OrderItem is a line of an order. Price is the unit price submitted at
// checkout and is never re-read from the catalog.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the aggregate root of checkout. It is persisted together with its
// items or not at all.
type Order struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     OrderStatus     `json:"status"`
	Items      []OrderItem     `json:"orderItems"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// OwnerID implements Resource.
func (o *Order) OwnerID() int64 { return o.UserID }

func (*Order) resourceKind() string { return "order" }
