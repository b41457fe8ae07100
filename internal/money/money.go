// Package money provides fixed-point monetary amounts in integer cents.
//
// All ledger arithmetic happens on Cents values so balances never drift the
// way float64 math does. Decimal strings ("12.34") are only parsed and
// formatted at the API boundary.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTooManyDecimal = errors.New("amount has more than 2 decimal places")
)

// Cents is a signed monetary amount in hundredths of the group currency.
type Cents int64

// ParseCents converts a decimal string to Cents.
//
// Amounts carry at most two decimal places; "12.345" is rejected rather than
// rounded so a client bug can't silently lose sub-cent precision.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Exponent() < -2 {
		// Trailing zeros are fine ("12.340"), extra precision is not.
		if !d.Equal(d.Round(2)) {
			return 0, fmt.Errorf("%w: %q", ErrTooManyDecimal, s)
		}
	}
	return Cents(d.Shift(2).IntPart()), nil
}

// FromFloat converts a float64 amount (in whole currency units) to Cents,
// rounding half away from zero. Used when decoding JSON numbers.
func FromFloat(f float64) Cents {
	return Cents(decimal.NewFromFloat(f).Shift(2).Round(0).IntPart())
}

// Float returns the amount in whole currency units for JSON encoding.
func (c Cents) Float() float64 {
	f, _ := decimal.New(int64(c), -2).Float64()
	return f
}

// String formats the amount with exactly two decimal places, e.g. "-12.30".
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Min returns the smaller of two amounts.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}
