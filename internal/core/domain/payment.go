package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "Credit Card"
	MethodPayPal       PaymentMethod = "PayPal"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment is a passive record attached to an order. UserID is copied from the
// order at creation so ownership can be checked without a second lookup.
type Payment struct {
	ID            string          `json:"id"`
	OrderID       int64           `json:"orderId"`
	UserID        int64           `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	TransactionID string          `json:"transactionId"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OwnerID implements Resource.
func (p *Payment) OwnerID() int64 { return p.UserID }

func (*Payment) resourceKind() string { return "payment" }
