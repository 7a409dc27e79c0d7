package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Orders reference products by id and never embed them.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
