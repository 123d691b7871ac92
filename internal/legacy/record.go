// Package legacy converts records from the old per-user document layout
// into the canonical transaction and card schema. The conversion is best
// effort: malformed fields are coerced to defaults and reported as
// warnings, never aborting an import batch.
package legacy

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DateKind tags the representation a legacy date arrived in.
type DateKind int

const (
	DateAbsent DateKind = iota
	DateEpochSeconds
	DateText
)

// DateValue is the tagged variant of a legacy date field. The old store
// wrote either a structured timestamp ({seconds, nanoseconds}) or a
// free-form string; both shapes appear in the wild.
type DateValue struct {
	Kind    DateKind
	Seconds int64
	Text    string
}

func (d *DateValue) UnmarshalJSON(data []byte) error {
	var ts struct {
		Seconds *int64 `json:"seconds"`
	}
	if err := json.Unmarshal(data, &ts); err == nil && ts.Seconds != nil {
		d.Kind = DateEpochSeconds
		d.Seconds = *ts.Seconds
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			d.Kind = DateAbsent
			return nil
		}
		d.Kind = DateText
		d.Text = s
		return nil
	}
	// Unrecognized shape: treat as absent rather than failing the record.
	d.Kind = DateAbsent
	return nil
}

// FlexAmount is a legacy amount that may arrive as a number, a numeric
// string, or garbage. Valid reports whether a usable value was present.
type FlexAmount struct {
	Valid bool
	Cents int64
}

func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	var raw json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil // non-numeric shape, leave invalid
		}
		raw = json.Number(s)
	}
	d, err := decimal.NewFromString(raw.String())
	if err != nil || d.IsNegative() {
		return nil
	}
	a.Valid = true
	a.Cents = d.Shift(2).Round(0).IntPart()
	return nil
}

// InstallmentFields carries legacy installment data with loose numeric
// types; coercion happens during normalization.
type InstallmentFields struct {
	Current json.Number `json:"current"`
	Total   json.Number `json:"total"`
	GroupID string      `json:"groupId"`
}

// Record is one loosely-typed transaction document from the old layout.
type Record struct {
	Type             string             `json:"type"`
	Status           string             `json:"status"`
	Description      string             `json:"description"`
	Amount           FlexAmount         `json:"amount"`
	Date             DateValue          `json:"date"`
	Category         string             `json:"category"`
	CardID           string             `json:"cardId"`
	IsInvoicePayment bool               `json:"isInvoicePayment"`
	Installments     *InstallmentFields `json:"installments"`
}

// CardRecord is one loosely-typed card document from the old layout.
type CardRecord struct {
	Name       string      `json:"name"`
	Limit      FlexAmount  `json:"limit"`
	ClosingDay json.Number `json:"closingDay"`
	DueDay     json.Number `json:"dueDay"`
	Color      string      `json:"color"`
}

// Export is a full legacy dump for one user: the two read-only collections
// the importer consumes exactly once.
type Export struct {
	Transactions []Record     `json:"transactions"`
	Cards        []CardRecord `json:"cards"`
}
