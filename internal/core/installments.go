package core

import "github.com/google/uuid"

const (
	// AmountPerInstallment repeats the entered amount on every member.
	AmountPerInstallment AmountMode = "installment"
	// AmountTotal divides the entered amount evenly across the members.
	AmountTotal AmountMode = "total"
)

// AmountMode selects how the entered amount maps onto installment members.
type AmountMode string

// ClampInstallments normalizes a user-entered installment count. Zero and
// negative counts mean "no installments" and clamp to 1; the entry flow is
// best effort and never rejects on this field.
func ClampInstallments(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// GenerateInstallments expands one transaction into a dated installment
// series. A count of 1 (or less, after clamping) returns the input
// unchanged with no descriptor attached.
//
// For larger counts the original id is discarded: every member gets a fresh
// id and all members share one newly minted group id. Member i keeps the
// originating fields but has its date advanced by i calendar months (see
// AddMonths for the month-end rule). The expansion is pure; persisting the
// members, one write each, is the caller's job and is not atomic.
func GenerateInstallments(t Transaction, total int, mode AmountMode) []Transaction {
	total = ClampInstallments(total)
	if total == 1 {
		return []Transaction{t}
	}

	amount := t.Amount
	if mode == AmountTotal {
		amount = SplitEven(t.Amount, total)
	}

	groupID := uuid.NewString()
	out := make([]Transaction, 0, total)
	for i := 0; i < total; i++ {
		member := t
		member.ID = uuid.NewString()
		member.Date = AddMonths(t.Date, i)
		member.Amount = amount
		member.Installments = &Installments{
			Current: i + 1,
			Total:   total,
			GroupID: groupID,
		}
		out = append(out, member)
	}
	return out
}
