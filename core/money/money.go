// Package money - Integer minor-unit amounts
// Every settlement amount is a whole number of the smallest currency unit
// (kobo, cents). Fractions only ever exist inside a decimal.Decimal and are
// resolved back to Money with an explicit rounding direction.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units
type Money int64

// MinorUnitsPerMajor is the scale used when displaying amounts in major units
const MinorUnitsPerMajor = 100

// Decimal returns the amount as an exact decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// Major returns the amount expressed in major units (e.g. 10254 -> 102.54)
func (m Money) Major() decimal.Decimal {
	return m.Decimal().Shift(-2)
}

// String formats the amount in major units with two decimal places
func (m Money) String() string {
	return m.Major().StringFixed(2)
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m < 0
}

// Ceil rounds d up to the next whole minor unit
func Ceil(d decimal.Decimal) Money {
	return Money(d.Ceil().IntPart())
}

// Floor rounds d down to the previous whole minor unit
func Floor(d decimal.Decimal) Money {
	return Money(d.Floor().IntPart())
}

// Min returns the smaller amount
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger amount
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// MulInt multiplies m by n, reporting false if the product overflows int64.
func MulInt(m Money, n int64) (Money, bool) {
	if m == 0 || n == 0 {
		return 0, true
	}
	if m < 0 || n < 0 {
		return 0, false
	}
	if int64(m) > math.MaxInt64/n {
		return 0, false
	}
	return Money(int64(m) * n), true
}
