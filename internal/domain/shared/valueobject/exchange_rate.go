package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangeRateScale is the number of fractional digits an exchange rate carries.
const ExchangeRateScale = 5

// ExchangeRate is the fixed-point conversion rate from the foreign invoice
// currency to the local books currency. It is always positive.
type ExchangeRate struct {
	value decimal.Decimal
}

// NewExchangeRate creates an exchange rate, rounding to 5 fractional digits.
// Returns an error if the rate is not strictly positive.
func NewExchangeRate(value decimal.Decimal) (ExchangeRate, error) {
	if !value.IsPositive() {
		return ExchangeRate{}, fmt.Errorf("exchange rate must be positive, got %s", value)
	}
	return ExchangeRate{value: value.Round(ExchangeRateScale)}, nil
}

// NewExchangeRateFromString creates an exchange rate from its string form.
func NewExchangeRateFromString(s string) (ExchangeRate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("invalid exchange rate: %w", err)
	}
	return NewExchangeRate(d)
}

// Value returns the decimal rate
func (r ExchangeRate) Value() decimal.Decimal {
	return r.value
}

// IsZero returns true for the zero-value (unset) rate
func (r ExchangeRate) IsZero() bool {
	return r.value.IsZero()
}

// String returns the rate with its full fixed-point scale
func (r ExchangeRate) String() string {
	return r.value.StringFixed(ExchangeRateScale)
}
