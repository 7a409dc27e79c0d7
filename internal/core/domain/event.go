package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventOrderStatusChanged OrderEventType = "order.status_changed"
	EventOrderDeleted       OrderEventType = "order.deleted"
)

// OrderEvent records a change to an order after it has been committed.
type OrderEvent struct {
	ID             string          `json:"id"`
	Type           OrderEventType  `json:"type"`
	OrderID        int64           `json:"orderId"`
	UserID         int64           `json:"userId"`
	Status         OrderStatus     `json:"status"`
	PreviousStatus OrderStatus     `json:"previousStatus,omitempty"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	ItemCount      int             `json:"itemCount"`
	ActorID        int64           `json:"actorId"`
	OccurredAt     time.Time       `json:"occurredAt"`
}
