package legacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
)

const (
	defaultDescription = "Sem descrição"
	defaultCategory    = "Outros"
	defaultCardName    = "Cartão Sem Nome"
	defaultCardColor   = "bg-slate-800"
)

// textDateLayouts are tried in order when a legacy date arrived as text.
var textDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize maps one legacy record onto the canonical transaction schema.
//
// Inference rules, in strict priority order:
//   - type "income" wins over everything else;
//   - otherwise a card reference without the invoice-payment flag means a
//     card expense;
//   - everything else is a plain expense.
//
// Status "completed" maps to COMPLETED, anything else to PENDING.
// Unparseable dates fall back to now; the returned warnings surface every
// such repair so the import report can show them.
func Normalize(rec Record, now time.Time) (core.Transaction, []string) {
	var warnings []string

	typ := core.Expense
	cardID := ""
	switch {
	case rec.Type == "income":
		typ = core.Income
	case rec.CardID != "" && !rec.IsInvoicePayment:
		typ = core.CardExpense
		cardID = rec.CardID
	}

	status := core.Pending
	if rec.Status == "completed" {
		status = core.Completed
	}

	date, dateWarn := normalizeDate(rec.Date, now)
	if dateWarn != "" {
		warnings = append(warnings, dateWarn)
	}

	amount := core.Money{}
	if rec.Amount.Valid {
		amount.Cents = rec.Amount.Cents
	} else {
		warnings = append(warnings, "amount missing or invalid, coerced to 0")
	}

	description := strings.TrimSpace(rec.Description)
	if description == "" {
		description = defaultDescription
	}
	category := strings.TrimSpace(rec.Category)
	if category == "" {
		category = defaultCategory
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Date:        date,
		Type:        typ,
		Category:    category,
		Status:      status,
		CardID:      cardID,
	}

	if rec.Installments != nil {
		current := coerceInt(rec.Installments.Current, 1)
		total := coerceInt(rec.Installments.Total, current)
		if total < 1 {
			total = 1
		}
		if current < 1 {
			current = 1
		}
		if current > total {
			current = total
		}
		groupID := rec.Installments.GroupID
		if groupID == "" {
			// Minting a fresh group id loses the original grouping; the
			// members of the old series will no longer share identity.
			groupID = uuid.NewString()
			warnings = append(warnings, "installment group id missing, minted a new one")
		}
		t.Installments = &core.Installments{Current: current, Total: total, GroupID: groupID}
	}

	return t, warnings
}

// NormalizeCard maps one legacy card document onto the canonical schema,
// coercing numeric fields and filling the old defaults.
func NormalizeCard(rec CardRecord) core.CreditCard {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = defaultCardName
	}
	color := rec.Color
	if color == "" {
		color = defaultCardColor
	}
	limit := core.Money{}
	if rec.Limit.Valid {
		limit.Cents = rec.Limit.Cents
	}
	return core.CreditCard{
		ID:         uuid.NewString(),
		Name:       name,
		Limit:      limit,
		ClosingDay: coerceInt(rec.ClosingDay, 1),
		DueDay:     coerceInt(rec.DueDay, 10),
		Color:      color,
	}
}

func normalizeDate(d DateValue, now time.Time) (time.Time, string) {
	switch d.Kind {
	case DateEpochSeconds:
		return time.Unix(d.Seconds, 0).UTC(), ""
	case DateText:
		for _, layout := range textDateLayouts {
			if parsed, err := time.Parse(layout, d.Text); err == nil {
				return parsed.UTC(), ""
			}
		}
		return now, fmt.Sprintf("unparseable date %q, falling back to import time", d.Text)
	default:
		return now, "date missing, falling back to import time"
	}
}

func coerceInt(n interface{ Int64() (int64, error) }, fallback int) int {
	v, err := n.Int64()
	if err != nil {
		return fallback
	}
	return int(v)
}

// Report summarizes one import run: what was converted, what was inserted
// and every best-effort repair along the way. Nothing here deduplicates;
// running the same export twice inserts every record twice.
type Report struct {
	Transactions int
	Cards        int
	Warnings     []string
	Failed       int
}

// Warn records a per-record warning with its source index.
func (r *Report) Warn(kind string, index int, msg string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s[%d]: %s", kind, index, msg))
}
