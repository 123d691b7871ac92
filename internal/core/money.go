// Package core implements the ledger engine: money handling, installment
// expansion, invoice-cycle classification and monthly aggregation.
//
// This file contains money parsing, formatting and splitting. Amounts are
// stored as integer cents; arithmetic never goes through float64.
package core

import (
	"encoding/json"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is a currency amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money. Both dot and comma are
// accepted as decimal separator. Negative amounts are rejected; the ledger
// encodes direction in the transaction type, not in the sign.
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(normalizeSeparator(s))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

func normalizeSeparator(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ',':
			out = append(out, '.')
		case ' ', '\t':
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// FormatBRL renders the amount as localized Brazilian Real text,
// e.g. "R$ 1.234,56".
func FormatBRL(m Money) string {
	return gomoney.New(m.Cents, gomoney.BRL).Display()
}

// SplitEven divides a total across n parts, rounding each part to the cent
// (half up). The parts are all equal and their sum may drift from the total
// by strictly less than n cents; the remainder is deliberately not
// redistributed onto any installment.
func SplitEven(total Money, n int) Money {
	if n <= 1 {
		return total
	}
	part := decimal.New(total.Cents, -2).
		DivRound(decimal.NewFromInt(int64(n)), 2)
	return Money{Cents: part.Shift(2).IntPart()}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative (e.g. a month balance).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// MarshalJSON encodes the amount as a plain decimal number with two
// fractional digits, the shape the document store persists.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.New(m.Cents, -2).StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		// Tolerate quoted amounts from older clients.
		var s string
		if err2 := json.Unmarshal(data, &s); err2 != nil {
			return fmt.Errorf("unmarshal amount: %w", err)
		}
		raw = json.Number(s)
	}
	d, err := decimal.NewFromString(raw.String())
	if err != nil {
		return fmt.Errorf("unmarshal amount %q: %w", raw.String(), ErrInvalidAmount)
	}
	m.Cents = d.Shift(2).Round(0).IntPart()
	return nil
}
