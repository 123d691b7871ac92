package core

import "time"

// InvoiceMonth returns the first day of the statement month a purchase
// belongs to. Purchases after the card's closing day roll into the next
// calendar month's statement; only year and month of the result are
// meaningful to callers.
func InvoiceMonth(date time.Time, closingDay int) time.Time {
	y, m, _ := date.Date()
	if date.Day() > closingDay {
		m++
	}
	// time.Date normalizes month 13 into January of the next year.
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether two instants fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// AddMonths advances a date by n calendar months. Like the JS Date API the
// original data was written with, a day-of-month that does not exist in the
// target month rolls into the following month (Jan 31 + 1 month = Mar 2/3)
// rather than clamping to the last day.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// BelongsToStatementMonth decides whether a transaction counts toward the
// target month. Incomes and plain expenses match on calendar date. Card
// expenses match on the statement month derived from the card's closing
// day; if the referenced card no longer exists the transaction degrades to
// calendar-date matching instead of erroring.
func BelongsToStatementMonth(t Transaction, cards []CreditCard, target time.Time) bool {
	if t.Type == CardExpense && t.CardID != "" {
		if card, ok := FindCard(cards, t.CardID); ok {
			return SameMonth(InvoiceMonth(t.Date, card.ClosingDay), target)
		}
	}
	return SameMonth(t.Date, target)
}
