package services

import (
	"context"
	"encoding/json"
	"testing"

	"financas/internal/core"
	"financas/internal/legacy"
)

func sampleExport(t *testing.T) legacy.Export {
	t.Helper()
	raw := `{
		"transactions": [
			{"type": "income", "status": "completed", "amount": "150.5", "date": {"seconds": 1700000000}},
			{"cardId": "c9", "amount": 55.9, "date": "2024-03-01"},
			{"description": "Sem data", "amount": "oops"}
		],
		"cards": [
			{"name": "Nubank", "limit": 8000, "closingDay": 5, "dueDay": 12, "color": "bg-purple-600"}
		]
	}`
	var export legacy.Export
	if err := json.Unmarshal([]byte(raw), &export); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	return export
}

func TestImportRun(t *testing.T) {
	store := &memoryStore{}
	svc := NewImportService(store, store)

	report, err := svc.Run(context.Background(), sampleExport(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Transactions != 3 || report.Cards != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	// The third record needed two repairs (date and amount); repairs are
	// surfaced, never swallowed.
	if len(report.Warnings) < 2 {
		t.Fatalf("expected warnings, got %v", report.Warnings)
	}

	if store.transactions[0].Type != core.Income || store.transactions[1].Type != core.CardExpense {
		t.Fatalf("inferred types: %s, %s", store.transactions[0].Type, store.transactions[1].Type)
	}
	if store.cards[0].Limit.Cents != 800000 {
		t.Fatalf("card limit = %d", store.cards[0].Limit.Cents)
	}
}

func TestImportRunTwiceDuplicates(t *testing.T) {
	// Double import is a known gap: the service performs no deduplication.
	store := &memoryStore{}
	svc := NewImportService(store, store)
	export := sampleExport(t)

	if _, err := svc.Run(context.Background(), export); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := svc.Run(context.Background(), export); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(store.transactions) != 6 || len(store.cards) != 2 {
		t.Fatalf("expected duplicated rows, got %d transactions, %d cards",
			len(store.transactions), len(store.cards))
	}
}
