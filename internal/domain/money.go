package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount with at most two fractional digits.
// All arithmetic goes through decimal to avoid float rounding drift;
// values cross the wire and the database boundary as text.
type Money struct {
	dec decimal.Decimal
}

// NewMoney validates that d is non-negative and representable with two
// fractional digits.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative: %s", d)
	}
	if !d.Equal(d.Round(2)) {
		return Money{}, fmt.Errorf("amount has more than two fractional digits: %s", d)
	}
	return Money{dec: d}, nil
}

// ParseMoney parses a decimal string such as "30.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d)
}

// MustMoney is a test helper; it panics on invalid input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero reports whether the amount is exactly zero.
func (m Money) Zero() bool { return m.dec.IsZero() }

// Positive reports whether the amount is strictly greater than zero.
func (m Money) Positive() bool { return m.dec.IsPositive() }

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool { return m.dec.LessThan(other.dec) }

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(other Money) bool { return m.dec.Equal(other.dec) }

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{dec: m.dec.Add(other.dec)} }

// Sub returns m - other. The result may be negative; callers that care
// must check before persisting.
func (m Money) Sub(other Money) Money { return Money{dec: m.dec.Sub(other.dec)} }

// String renders the amount with exactly two fractional digits.
func (m Money) String() string { return m.dec.StringFixed(2) }

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.dec }

// MarshalJSON renders the amount as a plain JSON number with two
// fractional digits, matching the public wire shape.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec.StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
