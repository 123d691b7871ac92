package core

import (
	"sort"
	"time"
)

type (
	// MonthSummary carries the dashboard totals for one target month.
	// Expense combines plain and card expenses; Balance is Income minus
	// Expense and may be negative.
	MonthSummary struct {
		Income         Money `json:"income"`
		Expense        Money `json:"expense"`
		Balance        Money `json:"balance"`
		PendingIncome  Money `json:"pendingIncome"`
		PendingExpense Money `json:"pendingExpense"`
	}

	// MonthFlow is one point of the trailing cash-flow history.
	MonthFlow struct {
		Year    int   `json:"year"`
		Month   int   `json:"month"`
		Income  Money `json:"income"`
		Expense Money `json:"expense"`
	}

	// CategoryAmount is an expense total grouped by category label.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}
)

// Summarize computes the monthly totals for the target month. Card expenses
// are attributed via their statement month; everything else by calendar
// date. The pending sums count PENDING entries of either kind, card
// expenses included.
func Summarize(transactions []Transaction, cards []CreditCard, target time.Time) MonthSummary {
	var s MonthSummary
	for _, t := range transactions {
		if !BelongsToStatementMonth(t, cards, target) {
			continue
		}
		if t.Type == Income {
			s.Income = s.Income.Add(t.Amount)
			if t.Status == Pending {
				s.PendingIncome = s.PendingIncome.Add(t.Amount)
			}
		} else {
			s.Expense = s.Expense.Add(t.Amount)
			if t.Status == Pending {
				s.PendingExpense = s.PendingExpense.Add(t.Amount)
			}
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// History returns income and expense totals for the `months` calendar
// months ending at now, oldest first. Matching is by plain calendar date,
// not invoice cycle: the chart is a cheap approximation and is documented
// as such.
func History(transactions []Transaction, now time.Time, months int) []MonthFlow {
	out := make([]MonthFlow, 0, months)
	for i := months - 1; i >= 0; i-- {
		anchor := AddMonths(now, -i)
		flow := MonthFlow{Year: anchor.Year(), Month: int(anchor.Month())}
		for _, t := range transactions {
			if !SameMonth(t.Date, anchor) {
				continue
			}
			if t.Type == Income {
				flow.Income = flow.Income.Add(t.Amount)
			} else {
				flow.Expense = flow.Expense.Add(t.Amount)
			}
		}
		out = append(out, flow)
	}
	return out
}

// CategoryBreakdown groups the month's non-income spending by category and
// returns at most `limit` groups, largest first. Equal sums keep
// first-encountered order.
func CategoryBreakdown(transactions []Transaction, cards []CreditCard, target time.Time, limit int) []CategoryAmount {
	sums := make(map[string]int64)
	var order []string
	for _, t := range transactions {
		if t.Type == Income || !BelongsToStatementMonth(t, cards, target) {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount.Cents
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterMonth returns the transactions classified into the target month,
// card expenses via their statement month.
func FilterMonth(transactions []Transaction, cards []CreditCard, target time.Time) []Transaction {
	var out []Transaction
	for _, t := range transactions {
		if BelongsToStatementMonth(t, cards, target) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByTypeStatus returns the transactions with the given type and
// status, in input order. Used by the income/expense drill-down views.
func FilterByTypeStatus(transactions []Transaction, typ TransactionType, status TransactionStatus) []Transaction {
	var out []Transaction
	for _, t := range transactions {
		if t.Type == typ && t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// FilterCardInvoice returns the card expenses that land on the card's
// statement for the target month.
func FilterCardInvoice(transactions []Transaction, card CreditCard, target time.Time) []Transaction {
	var out []Transaction
	for _, t := range transactions {
		if t.Type != CardExpense || t.CardID != card.ID {
			continue
		}
		if SameMonth(InvoiceMonth(t.Date, card.ClosingDay), target) {
			out = append(out, t)
		}
	}
	return out
}

// InvoiceTotal sums the card's statement for the target month.
func InvoiceTotal(transactions []Transaction, card CreditCard, target time.Time) Money {
	var total Money
	for _, t := range FilterCardInvoice(transactions, card, target) {
		total = total.Add(t.Amount)
	}
	return total
}
