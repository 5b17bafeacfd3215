package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// amountExponent is the number of decimal places every Amount is rounded to
// on construction, matching the four-decimal-place precision required of
// the ledger.
const amountExponent = 4

// Amount is a fixed, four-decimal-place monetary value. It is never backed
// by float64: arithmetic on decimal.Decimal is exact, so repeated
// deposit/withdraw/hold cycles cannot drift the way floating point would.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{d: decimal.Zero}

// NewAmount builds an Amount from a decimal string (e.g. "12.3456"). Returns
// an error if s does not parse as a decimal.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d.Round(amountExponent)}, nil
}

// MustAmount is NewAmount for literals known at compile time to be valid;
// it panics otherwise. Intended for tests and fixed constants, never for
// parsing external input.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromFloat converts a float64 amount (the CSV/Kafka wire shape) into
// an Amount, rounding to four decimal places. External adapters are the only
// callers; once inside the engine, amounts never pass back through float64.
func AmountFromFloat(f float64) Amount {
	return Amount{d: decimal.NewFromFloat(f).Round(amountExponent)}
}

func (a Amount) Add(other Amount) Amount {
	return Amount{d: a.d.Add(other.d)}
}

func (a Amount) Sub(other Amount) Amount {
	return Amount{d: a.d.Sub(other.d)}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// GreaterThanOrEqual reports whether a >= other.
func (a Amount) GreaterThanOrEqual(other Amount) bool {
	return a.d.GreaterThanOrEqual(other.d)
}

// String renders the amount with exactly four decimal places, matching the
// output CSV format.
func (a Amount) String() string {
	return a.d.StringFixed(4)
}

func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}
