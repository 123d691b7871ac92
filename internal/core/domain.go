package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income      TransactionType = "INCOME"
	Expense     TransactionType = "EXPENSE"
	CardExpense TransactionType = "CARD_EXPENSE"
)

const (
	Completed TransactionStatus = "COMPLETED"
	Pending   TransactionStatus = "PENDING"
)

type (
	TransactionType   string
	TransactionStatus string

	// Installments describes one member of an installment group.
	// Current is 1-based; every member generated from the same entry
	// shares GroupID.
	Installments struct {
		Current int    `json:"current"`
		Total   int    `json:"total"`
		GroupID string `json:"groupId"`
	}

	Transaction struct {
		ID           string            `json:"id"`
		Description  string            `json:"description"`
		Amount       Money             `json:"amount"`
		Date         time.Time         `json:"date"`
		Type         TransactionType   `json:"type"`
		Category     string            `json:"category"`
		Status       TransactionStatus `json:"status"`
		CardID       string            `json:"cardId,omitempty"`
		Installments *Installments     `json:"installments,omitempty"`
	}

	CreditCard struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Limit      Money  `json:"limit"`
		ClosingDay int    `json:"closingDay"`
		DueDay     int    `json:"dueDay"`
		Color      string `json:"color"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidStatus    = errors.New("invalid transaction status")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingCard      = errors.New("card expense without card reference")
	ErrInvalidDay       = errors.New("invalid day of month")
)

// SuggestedIncomeCategories and SuggestedExpenseCategories are the labels
// offered by entry forms. Category is free-form; these are suggestions only.
var (
	SuggestedIncomeCategories  = []string{"Salário", "Freelance", "Investimentos", "Outros"}
	SuggestedExpenseCategories = []string{"Apê", "Mercado", "Transporte", "Lazer", "Saúde", "Assinaturas", "Educação", "Outros"}
)

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	switch t.Type {
	case Income, Expense, CardExpense:
	default:
		return ErrInvalidType
	}
	switch t.Status {
	case Completed, Pending:
	default:
		return ErrInvalidStatus
	}
	if t.Type == CardExpense && t.CardID == "" {
		return ErrMissingCard
	}
	if inst := t.Installments; inst != nil {
		if inst.Total < 1 || inst.Current < 1 || inst.Current > inst.Total {
			return errors.New("invalid installment descriptor")
		}
	}
	return nil
}

func (c CreditCard) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyDescription
	}
	if c.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidDay
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

// ToggleStatus returns the transaction with its status flipped.
func (t Transaction) ToggleStatus() Transaction {
	if t.Status == Completed {
		t.Status = Pending
	} else {
		t.Status = Completed
	}
	return t
}

// FindCard looks a card up by id. The zero card and false are returned for
// orphaned references; callers degrade to calendar-date classification.
func FindCard(cards []CreditCard, id string) (CreditCard, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return CreditCard{}, false
}
