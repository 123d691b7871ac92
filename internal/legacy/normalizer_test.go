package legacy

import (
	"encoding/json"
	"testing"
	"time"

	"financas/internal/core"
)

var importTime = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func TestNormalizeIncomeWithEpochDate(t *testing.T) {
	rec := decodeRecord(t, `{
		"type": "income",
		"status": "completed",
		"amount": "150.5",
		"date": {"seconds": 1700000000}
	}`)

	got, warnings := Normalize(rec, importTime)
	if got.Type != core.Income {
		t.Fatalf("type = %s", got.Type)
	}
	if got.Status != core.Completed {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Amount.Cents != 15050 {
		t.Fatalf("amount = %d", got.Amount.Cents)
	}
	want := time.Unix(1700000000, 0).UTC()
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got.ID == "" {
		t.Fatal("normalized record must get a fresh id")
	}
}

func TestNormalizeCardExpenseDetection(t *testing.T) {
	// Card reference without the invoice-payment flag: card expense.
	rec := decodeRecord(t, `{"cardId": "c9", "amount": 55.9, "date": "2024-03-01"}`)
	got, _ := Normalize(rec, importTime)
	if got.Type != core.CardExpense || got.CardID != "c9" {
		t.Fatalf("got type=%s cardId=%q", got.Type, got.CardID)
	}

	// Same record flagged as an invoice payment: plain expense, card dropped.
	rec = decodeRecord(t, `{"cardId": "c9", "isInvoicePayment": true, "amount": 55.9, "date": "2024-03-01"}`)
	got, _ = Normalize(rec, importTime)
	if got.Type != core.Expense || got.CardID != "" {
		t.Fatalf("got type=%s cardId=%q", got.Type, got.CardID)
	}

	// The income rule wins over card detection.
	rec = decodeRecord(t, `{"type": "income", "cardId": "c9", "amount": 10, "date": "2024-03-01"}`)
	got, _ = Normalize(rec, importTime)
	if got.Type != core.Income || got.CardID != "" {
		t.Fatalf("got type=%s cardId=%q", got.Type, got.CardID)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got, warnings := Normalize(decodeRecord(t, `{}`), importTime)
	if got.Description != "Sem descrição" {
		t.Fatalf("description = %q", got.Description)
	}
	if got.Category != "Outros" {
		t.Fatalf("category = %q", got.Category)
	}
	if got.Amount.Cents != 0 {
		t.Fatalf("amount = %d", got.Amount.Cents)
	}
	if got.Status != core.Pending {
		t.Fatalf("status = %s", got.Status)
	}
	if !got.Date.Equal(importTime) {
		t.Fatalf("date = %v, want import time", got.Date)
	}
	if len(warnings) < 2 {
		t.Fatalf("expected warnings for missing date and amount, got %v", warnings)
	}
}

func TestNormalizeUnparseableDateFallsBack(t *testing.T) {
	rec := decodeRecord(t, `{"amount": 1, "date": "não é uma data"}`)
	got, warnings := Normalize(rec, importTime)
	if !got.Date.Equal(importTime) {
		t.Fatalf("date = %v, want import time", got.Date)
	}
	if len(warnings) != 1 {
		t.Fatalf("the fallback must be surfaced as a warning, got %v", warnings)
	}
}

func TestNormalizeTextDateFormats(t *testing.T) {
	for _, raw := range []string{
		`{"amount": 1, "date": "2024-03-01"}`,
		`{"amount": 1, "date": "2024-03-01T10:30:00Z"}`,
		`{"amount": 1, "date": "01/03/2024"}`,
	} {
		got, warnings := Normalize(decodeRecord(t, raw), importTime)
		if got.Date.Year() != 2024 || got.Date.Month() != time.March || got.Date.Day() != 1 {
			t.Fatalf("%s: date = %v", raw, got.Date)
		}
		if len(warnings) != 0 {
			t.Fatalf("%s: unexpected warnings %v", raw, warnings)
		}
	}
}

func TestNormalizeInstallmentPreservation(t *testing.T) {
	rec := decodeRecord(t, `{
		"amount": 100, "date": "2024-03-01", "cardId": "c1",
		"installments": {"current": "2", "total": 10, "groupId": "g-old"}
	}`)
	got, warnings := Normalize(rec, importTime)
	inst := got.Installments
	if inst == nil || inst.Current != 2 || inst.Total != 10 || inst.GroupID != "g-old" {
		t.Fatalf("installments = %+v", inst)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	// Missing group id: a fresh one is minted and the break is reported.
	rec = decodeRecord(t, `{
		"amount": 100, "date": "2024-03-01",
		"installments": {"current": 1, "total": 3}
	}`)
	got, warnings = Normalize(rec, importTime)
	if got.Installments == nil || got.Installments.GroupID == "" {
		t.Fatalf("expected minted group id, got %+v", got.Installments)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected grouping warning, got %v", warnings)
	}
}

func TestNormalizeCard(t *testing.T) {
	var rec CardRecord
	if err := json.Unmarshal([]byte(`{"name": "Nubank", "limit": "8000", "closingDay": 5, "dueDay": 12, "color": "bg-purple-600"}`), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := NormalizeCard(rec)
	if got.Name != "Nubank" || got.Limit.Cents != 800000 || got.ClosingDay != 5 || got.DueDay != 12 {
		t.Fatalf("card = %+v", got)
	}

	empty := NormalizeCard(CardRecord{})
	if empty.Name != "Cartão Sem Nome" || empty.ClosingDay != 1 || empty.DueDay != 10 || empty.Color != "bg-slate-800" {
		t.Fatalf("defaults = %+v", empty)
	}
}
