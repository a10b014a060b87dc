package pricing

import "github.com/shopspring/decimal"

// Money represents a monetary value. Arithmetic is exact; no rounding is applied.
type Money = decimal.Decimal

// OptionalMoney is a monetary value that may be absent. An absent value is distinct from zero.
type OptionalMoney = decimal.NullDecimal

// Zero is the zero amount.
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// Some wraps a present amount.
func Some(m Money) OptionalMoney {
	return OptionalMoney{Decimal: m, Valid: true}
}

// None returns an absent amount.
func None() OptionalMoney {
	return OptionalMoney{}
}

// OrZero unwraps an optional amount treating absence as zero.
func OrZero(m OptionalMoney) Money {
	if !m.Valid {
		return Zero
	}
	return m.Decimal
}

// MustParse converts a decimal string into Money and panics on malformed input.
// Intended for constants and tests.
func MustParse(value string) Money {
	return decimal.RequireFromString(value)
}
