// Package types provides common type aliases and utilities.
package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// PriceKey returns the canonical two-decimal representation of a price,
// used as the price component of aggregation keys. Two unit prices that
// round to the same two decimals aggregate into the same bucket.
func PriceKey(m Money) string {
	return m.StringFixed(2)
}

// FormatBare renders a Money value with the minimal number of digits,
// the way a plain JSON number prints (2.5 stays "2.5", 8 stays "8").
func FormatBare(m Money) string {
	return strconv.FormatFloat(m.InexactFloat64(), 'f', -1, 64)
}

// Round2 rounds a Money value to two decimal places half away from zero.
func Round2(m Money) Money {
	return m.Round(2)
}
