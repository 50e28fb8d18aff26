package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// maxAmount bounds a single amount to what a numeric(20,2) column can hold
var maxAmount = decimal.New(1, 18)

// ParseAmount validates a caller supplied amount and returns it as an exact decimal.
// The amount must be strictly positive and carry at most two decimal places.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidAmount, amount)
	}

	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than zero", errs.ErrInvalidAmount)
	}

	if !value.Equal(value.Round(MaxDecimalPlaces)) {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	if value.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: amount is too large", errs.ErrInvalidAmount)
	}

	return value, nil
}

// MustParseAmount parses a trusted amount such as a configured default and panics on failure
func MustParseAmount(amount string) decimal.Decimal {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		panic(fmt.Sprintf("entity: invalid amount %q: %v", amount, err))
	}
	return value.Round(MaxDecimalPlaces)
}

// FormatAmount renders an amount with exactly two decimal places, e.g. "150.00"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MaxDecimalPlaces)
}
