// Package core holds the back-office domain: records, value types and the
// pure calculations the services build on.
//
// Money is kept as integer cents and percentages as hundredths of a percent so
// sums never drift. Both travel over JSON as fixed two-decimal numbers.
package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents bounds parsed amounts well below int64 overflow once multiplied by quantities.
const maxCents = int64(1_000_000_000_000_00)

type (
	// Money is an amount in cents.
	Money struct {
		Cents int64
	}

	// Percent is a percentage in hundredths, so 12.5% is {Hundredths: 1250}.
	Percent struct {
		Hundredths int64
	}
)

// Cents is a convenience constructor.
func Cents(c int64) Money { return Money{Cents: c} }

// ParseMoney parses a decimal string such as "12.34" or "12,34" into cents,
// rounding half-up on the third decimal. Negative values are accepted here;
// callers enforce minimums.
func ParseMoney(s string) (Money, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParsePercent parses "10" or "7.25" into hundredths of a percent.
func ParsePercent(s string) (Percent, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Percent{}, ErrInvalidAmount
	}
	return Percent{Hundredths: d.Shift(2).Round(0).IntPart()}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Mul multiplies by an integer quantity.
func (m Money) Mul(qty int) Money { return Money{Cents: m.Cents * int64(qty)} }

func (m Money) IsZero() bool     { return m.Cents == 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.Cents, -2) }

// String formats with exactly two decimals.
func (m Money) String() string { return m.Decimal().StringFixed(2) }

// Float returns the amount for display only, never for arithmetic.
func (m Money) Float() float64 { return m.Decimal().InexactFloat64() }

// Validate rejects amounts below one cent.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Of returns p percent of m, rounded half away from zero to the cent.
func (p Percent) Of(m Money) Money {
	v := decimal.NewFromInt(m.Cents).
		Mul(decimal.NewFromInt(p.Hundredths)).
		Div(decimal.NewFromInt(10000)).
		Round(0)
	return Money{Cents: v.IntPart()}
}

func (p Percent) Decimal() decimal.Decimal { return decimal.New(p.Hundredths, -2) }
func (p Percent) String() string           { return p.Decimal().StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s, null := jsonNumberText(b)
	if null {
		m.Cents = 0
		return nil
	}
	v, err := ParseMoney(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	*m = v
	return nil
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	s, null := jsonNumberText(b)
	if null {
		p.Hundredths = 0
		return nil
	}
	v, err := ParsePercent(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	*p = v
	return nil
}

// jsonNumberText accepts both 12.5 and "12.5".
func jsonNumberText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", true
	}
	return strings.Trim(string(b), `"`), false
}
