// Package types provides common type aliases and utilities.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits kept for every stored amount,
// unit prices included. Line amounts are unit × quantity at this scale.
const MoneyScale int32 = 2

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return RoundMoney(d), nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return RoundMoney(d)
}

// NewMoneyFromCents builds an amount from minor units (1 = 0.01).
func NewMoneyFromCents(cents int64) Money {
	return decimal.New(cents, -MoneyScale)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds half away from zero to MoneyScale digits.
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}

// LineAmount returns unit × quantity rounded to MoneyScale.
func LineAmount(unit Money, quantity int64) Money {
	return RoundMoney(unit.Mul(decimal.NewFromInt(quantity)))
}

// Sum adds amounts and rounds the result.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return RoundMoney(total)
}

// Percent returns part/base × 100 rounded to two digits, or zero when base is not positive.
func Percent(part, base Money) Money {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return part.Div(base).Mul(decimal.NewFromInt(100)).Round(2)
}
