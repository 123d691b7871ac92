package core

import (
	"testing"
	"time"
)

func fixtureLedger() ([]Transaction, []CreditCard) {
	cards := []CreditCard{
		{ID: "c1", Name: "Nubank", Limit: Money{Cents: 800000}, ClosingDay: 5, DueDay: 12},
	}
	transactions := []Transaction{
		{ID: "t1", Type: Income, Status: Completed, Category: "Salário",
			Amount: Money{Cents: 850000}, Date: date(2026, time.April, 1)},
		{ID: "t2", Type: Income, Status: Pending, Category: "Freelance",
			Amount: Money{Cents: 120000}, Date: date(2026, time.April, 10)},
		{ID: "t3", Type: Expense, Status: Pending, Category: "Apê",
			Amount: Money{Cents: 220000}, Date: date(2026, time.April, 5)},
		// Bought March 10 on a day-5 closing card: lands on April's statement.
		{ID: "t4", Type: CardExpense, CardID: "c1", Status: Completed, Category: "Assinaturas",
			Amount: Money{Cents: 5590}, Date: date(2026, time.March, 10)},
		// Pending card expense in the April statement.
		{ID: "t5", Type: CardExpense, CardID: "c1", Status: Pending, Category: "Mercado",
			Amount: Money{Cents: 30000}, Date: date(2026, time.April, 2)},
		// May by calendar and by statement: outside the April views.
		{ID: "t6", Type: Expense, Status: Completed, Category: "Lazer",
			Amount: Money{Cents: 9900}, Date: date(2026, time.May, 3)},
	}
	return transactions, cards
}

func TestSummarize(t *testing.T) {
	transactions, cards := fixtureLedger()
	target := date(2026, time.April, 1)

	s := Summarize(transactions, cards, target)
	if s.Income.Cents != 970000 {
		t.Fatalf("income = %d", s.Income.Cents)
	}
	if s.Expense.Cents != 220000+5590+30000 {
		t.Fatalf("expense = %d", s.Expense.Cents)
	}
	if s.Balance != s.Income.Sub(s.Expense) {
		t.Fatalf("balance %d != income - expense", s.Balance.Cents)
	}
	if s.PendingIncome.Cents != 120000 {
		t.Fatalf("pending income = %d", s.PendingIncome.Cents)
	}
	// The pending expense sum must not silently exclude card expenses.
	if s.PendingExpense.Cents != 220000+30000 {
		t.Fatalf("pending expense = %d", s.PendingExpense.Cents)
	}
}

func TestSummarizeBalanceIdentityEveryMonth(t *testing.T) {
	transactions, cards := fixtureLedger()
	for m := time.January; m <= time.December; m++ {
		s := Summarize(transactions, cards, date(2026, m, 1))
		if s.Balance != s.Income.Sub(s.Expense) {
			t.Fatalf("month %v: balance identity broken", m)
		}
	}
}

func TestHistoryUsesCalendarDates(t *testing.T) {
	transactions, cards := fixtureLedger()
	_ = cards
	now := date(2026, time.May, 15)

	flows := History(transactions, now, 6)
	if len(flows) != 6 {
		t.Fatalf("expected 6 months, got %d", len(flows))
	}
	if flows[0].Year != 2025 || flows[0].Month != 12 {
		t.Fatalf("history should start at Dec 2025, got %d-%d", flows[0].Year, flows[0].Month)
	}
	if flows[5].Month != 5 {
		t.Fatalf("history should end at the current month, got %d", flows[5].Month)
	}

	// t4 is an April statement purchase but a March calendar purchase; the
	// history chart deliberately counts it in March.
	march := flows[3]
	if march.Month != 3 || march.Expense.Cents != 5590 {
		t.Fatalf("march flow = %+v, want 5590 cents of expense", march)
	}
	april := flows[4]
	if april.Expense.Cents != 220000+30000 {
		t.Fatalf("april flow expense = %d", april.Expense.Cents)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	transactions, cards := fixtureLedger()
	target := date(2026, time.April, 1)

	got := CategoryBreakdown(transactions, cards, target, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	if got[0].Name != "Apê" || got[1].Name != "Mercado" || got[2].Name != "Assinaturas" {
		t.Fatalf("wrong order: %+v", got)
	}
}

func TestCategoryBreakdownCapsAtLimit(t *testing.T) {
	var transactions []Transaction
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		transactions = append(transactions, Transaction{
			Type: Expense, Category: name, Status: Completed,
			Amount: Money{Cents: int64(700 - i)}, Date: date(2026, time.April, 2),
		})
	}
	got := CategoryBreakdown(transactions, nil, date(2026, time.April, 1), 5)
	if len(got) != 5 {
		t.Fatalf("expected cap at 5, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Amount.Cents > got[i-1].Amount.Cents {
			t.Fatalf("not sorted descending: %+v", got)
		}
	}
}

func TestCategoryBreakdownStableTies(t *testing.T) {
	transactions := []Transaction{
		{Type: Expense, Category: "zzz", Status: Completed, Amount: Money{Cents: 100}, Date: date(2026, time.April, 1)},
		{Type: Expense, Category: "aaa", Status: Completed, Amount: Money{Cents: 100}, Date: date(2026, time.April, 2)},
	}
	got := CategoryBreakdown(transactions, nil, date(2026, time.April, 1), 5)
	if got[0].Name != "zzz" || got[1].Name != "aaa" {
		t.Fatalf("ties must keep first-encountered order: %+v", got)
	}
}

func TestDetailFilters(t *testing.T) {
	transactions, cards := fixtureLedger()

	completedIncome := FilterByTypeStatus(transactions, Income, Completed)
	if len(completedIncome) != 1 || completedIncome[0].ID != "t1" {
		t.Fatalf("completed income filter: %+v", completedIncome)
	}

	invoice := FilterCardInvoice(transactions, cards[0], date(2026, time.April, 1))
	if len(invoice) != 2 {
		t.Fatalf("expected 2 invoice entries, got %d", len(invoice))
	}
	if total := InvoiceTotal(transactions, cards[0], date(2026, time.April, 1)); total.Cents != 35590 {
		t.Fatalf("invoice total = %d", total.Cents)
	}

	// Absent filters yield empty sequences, never errors.
	if got := FilterByTypeStatus(nil, Income, Completed); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
