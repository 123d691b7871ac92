package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"financas/internal/core"
)

// memoryStore is an in-memory stand-in for both stores, ordered by insert.
type memoryStore struct {
	transactions []core.Transaction
	cards        []core.CreditCard
	failAfter    int // fail inserts after this many (0 = never)
}

func (m *memoryStore) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	return append([]core.Transaction(nil), m.transactions...), nil
}

func (m *memoryStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	for _, t := range m.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, errors.New("not found")
}

func (m *memoryStore) InsertTransaction(ctx context.Context, t core.Transaction) error {
	if m.failAfter > 0 && len(m.transactions) >= m.failAfter {
		return errors.New("store unavailable")
	}
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *memoryStore) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID {
			m.transactions[i] = t
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memoryStore) DeleteTransaction(ctx context.Context, id string) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memoryStore) FetchCards(ctx context.Context) ([]core.CreditCard, error) {
	return append([]core.CreditCard(nil), m.cards...), nil
}

func (m *memoryStore) InsertCard(ctx context.Context, c core.CreditCard) error {
	m.cards = append(m.cards, c)
	return nil
}

func (m *memoryStore) UpdateCard(ctx context.Context, c core.CreditCard) error {
	for i := range m.cards {
		if m.cards[i].ID == c.ID {
			m.cards[i] = c
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memoryStore) DeleteCard(ctx context.Context, id string) error {
	for i := range m.cards {
		if m.cards[i].ID == id {
			m.cards = append(m.cards[:i], m.cards[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	syncs   []string
	deletes []string
}

func (p *recordingPublisher) PublishSync(ctx context.Context, id string) error {
	p.syncs = append(p.syncs, id)
	return nil
}

func (p *recordingPublisher) PublishDelete(ctx context.Context, id string) error {
	p.deletes = append(p.deletes, id)
	return nil
}

func entry() core.Transaction {
	return core.Transaction{
		Description: "Academia",
		Amount:      core.Money{Cents: 12000},
		Date:        time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
		Category:    "Saúde",
		Status:      core.Pending,
	}
}

func TestCreateTransactionExpandsInstallments(t *testing.T) {
	store := &memoryStore{}
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, store, pub)

	members, err := svc.CreateTransaction(context.Background(), entry(), 4, core.AmountPerInstallment)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(members) != 4 || len(store.transactions) != 4 {
		t.Fatalf("expected 4 persisted members, got %d/%d", len(members), len(store.transactions))
	}
	if len(pub.syncs) != 4 {
		t.Fatalf("expected 4 sync events, got %d", len(pub.syncs))
	}
	group := store.transactions[0].Installments.GroupID
	for _, tx := range store.transactions {
		if tx.Installments.GroupID != group {
			t.Fatal("members must share a group id")
		}
	}
}

func TestCreateTransactionPartialBatch(t *testing.T) {
	// Mid-batch failures leave earlier members persisted; the error says
	// which member failed.
	store := &memoryStore{failAfter: 2}
	svc := NewLedgerService(store, store, nil)

	inserted, err := svc.CreateTransaction(context.Background(), entry(), 5, core.AmountPerInstallment)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(inserted) != 2 || len(store.transactions) != 2 {
		t.Fatalf("expected 2 persisted members, got %d/%d", len(inserted), len(store.transactions))
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	store := &memoryStore{}
	svc := NewLedgerService(store, store, nil)

	bad := entry()
	bad.Description = ""
	if _, err := svc.CreateTransaction(context.Background(), bad, 1, core.AmountPerInstallment); err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.transactions) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestToggleStatus(t *testing.T) {
	store := &memoryStore{}
	svc := NewLedgerService(store, store, nil)

	members, err := svc.CreateTransaction(context.Background(), entry(), 1, core.AmountPerInstallment)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.ToggleStatus(context.Background(), members[0].ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.Status != core.Completed {
		t.Fatalf("status = %s", got.Status)
	}
	if store.transactions[0].Status != core.Completed {
		t.Fatal("toggle must be persisted")
	}
}

func TestDeleteTransactionPublishesDelete(t *testing.T) {
	store := &memoryStore{}
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, store, pub)

	members, _ := svc.CreateTransaction(context.Background(), entry(), 1, core.AmountPerInstallment)
	if err := svc.DeleteTransaction(context.Background(), members[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.transactions) != 0 {
		t.Fatal("transaction should be gone")
	}
	if len(pub.deletes) != 1 {
		t.Fatalf("expected delete event, got %+v", pub.deletes)
	}
}

func TestDeleteCardLeavesTransactionsOrphaned(t *testing.T) {
	store := &memoryStore{}
	svc := NewLedgerService(store, store, nil)

	card, err := svc.CreateCard(context.Background(), core.CreditCard{
		Name: "Nubank", Limit: core.Money{Cents: 800000}, ClosingDay: 5, DueDay: 12, Color: "bg-purple-600",
	})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}

	tx := entry()
	tx.Type = core.CardExpense
	tx.CardID = card.ID
	if _, err := svc.CreateTransaction(context.Background(), tx, 1, core.AmountPerInstallment); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := svc.DeleteCard(context.Background(), card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if len(store.transactions) != 1 {
		t.Fatal("card deletion must not cascade to transactions")
	}

	// The orphaned expense still shows up, classified by calendar date.
	list, err := svc.ListMonth(context.Background(), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected orphan in its calendar month, got %d entries", len(list))
	}
}

func TestDashboard(t *testing.T) {
	store := &memoryStore{}
	svc := NewLedgerService(store, store, nil)

	income := entry()
	income.Type = core.Income
	income.Category = "Salário"
	if _, err := svc.CreateTransaction(context.Background(), income, 1, core.AmountPerInstallment); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateTransaction(context.Background(), entry(), 1, core.AmountPerInstallment); err != nil {
		t.Fatalf("create: %v", err)
	}

	target := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	dash, err := svc.Dashboard(context.Background(), target, target)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Summary.Balance.Cents != 0 {
		t.Fatalf("balance = %d, want 0 (equal income and expense)", dash.Summary.Balance.Cents)
	}
	if len(dash.History) != 6 {
		t.Fatalf("history length = %d", len(dash.History))
	}
	if len(dash.Categories) != 1 || dash.Categories[0].Name != "Saúde" {
		t.Fatalf("categories = %+v", dash.Categories)
	}
}
