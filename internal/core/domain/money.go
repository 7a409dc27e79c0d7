package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Prices and totals are stored as NUMERIC(12, 2).
const moneyScale = 2

var moneyLimit = decimal.New(1, 10)

// CheckAmount rejects amounts the store would refuse or round: negative
// values, values of 1e10 or more, and more than two decimal places.
func CheckAmount(field string, amount decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	case amount.GreaterThanOrEqual(moneyLimit):
		return fmt.Errorf("%w: %s must be less than %s", ErrValidation, field, moneyLimit)
	case !amount.Equal(amount.Truncate(moneyScale)):
		return fmt.Errorf("%w: %s must have at most %d decimal places", ErrValidation, field, moneyScale)
	}
	return nil
}
