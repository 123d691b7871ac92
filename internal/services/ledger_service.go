// Package services orchestrates the ledger engine over the injected
// stores: transaction entry with installment expansion, mutations, and the
// read-side aggregation views.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
)

// LedgerService coordinates writes to the transaction and card stores and
// publishes sync events after each mutation.
type LedgerService struct {
	transactions TransactionStore
	cards        CardStore
	events       EventPublisher
}

func NewLedgerService(transactions TransactionStore, cards CardStore, events EventPublisher) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		cards:        cards,
		events:       events,
	}
}

// Dashboard bundles every read the overview screen needs for one month.
type Dashboard struct {
	Summary    core.MonthSummary     `json:"summary"`
	History    []core.MonthFlow      `json:"history"`
	Categories []core.CategoryAmount `json:"categories"`
}

// CreateTransaction validates the entry, expands it into installments and
// persists one document per member. The batch is not atomic: on a
// mid-batch failure the already-inserted members stay persisted and the
// error reports how far the batch got.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction, installments int, mode core.AmountMode) ([]core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate transaction: %w", err)
	}

	members := core.GenerateInstallments(t, installments, mode)
	for i, member := range members {
		if err := s.transactions.InsertTransaction(ctx, member); err != nil {
			return members[:i], fmt.Errorf("insert installment %d/%d: %w", i+1, len(members), err)
		}
		s.publishSync(ctx, member.ID)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID,
		"installments", len(members),
		"amount_mode", string(mode))
	return members, nil
}

// UpdateTransaction replaces an existing document after validation.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.transactions.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publishSync(ctx, t.ID)
	return nil
}

// DeleteTransaction removes one document by id.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publishDelete(ctx, id)
	return nil
}

// ToggleStatus flips a transaction between COMPLETED and PENDING.
func (s *LedgerService) ToggleStatus(ctx context.Context, id string) (core.Transaction, error) {
	t, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t = t.ToggleStatus()
	if err := s.transactions.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.publishSync(ctx, t.ID)
	return t, nil
}

// ListMonth returns the transactions classified into the target month.
func (s *LedgerService) ListMonth(ctx context.Context, target time.Time) ([]core.Transaction, error) {
	transactions, cards, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterMonth(transactions, cards, target), nil
}

// Dashboard computes the overview for the target month: classified totals,
// trailing calendar history and the top-5 category breakdown.
func (s *LedgerService) Dashboard(ctx context.Context, target, now time.Time) (Dashboard, error) {
	transactions, cards, err := s.fetchAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Summary:    core.Summarize(transactions, cards, target),
		History:    core.History(transactions, now, 6),
		Categories: core.CategoryBreakdown(transactions, cards, target, 5),
	}, nil
}

// CardInvoice is the statement drill-down for one card and month.
type CardInvoice struct {
	Card         core.CreditCard    `json:"card"`
	Total        core.Money         `json:"total"`
	Available    core.Money         `json:"available"`
	Transactions []core.Transaction `json:"transactions"`
}

// Invoice returns a card's statement for the target month.
func (s *LedgerService) Invoice(ctx context.Context, cardID string, target time.Time) (CardInvoice, error) {
	transactions, cards, err := s.fetchAll(ctx)
	if err != nil {
		return CardInvoice{}, err
	}
	card, ok := core.FindCard(cards, cardID)
	if !ok {
		return CardInvoice{}, fmt.Errorf("card %s: not found", cardID)
	}
	total := core.InvoiceTotal(transactions, card, target)
	return CardInvoice{
		Card:         card,
		Total:        total,
		Available:    card.Limit.Sub(total),
		Transactions: core.FilterCardInvoice(transactions, card, target),
	}, nil
}

// CreateCard persists a new card.
func (s *LedgerService) CreateCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, fmt.Errorf("validate card: %w", err)
	}
	if err := s.cards.InsertCard(ctx, c); err != nil {
		return core.CreditCard{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

// UpdateCard replaces an existing card.
func (s *LedgerService) UpdateCard(ctx context.Context, c core.CreditCard) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate card: %w", err)
	}
	if err := s.cards.UpdateCard(ctx, c); err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return nil
}

// DeleteCard removes a card without cascading to its transactions; those
// become orphaned and degrade to calendar-date classification.
func (s *LedgerService) DeleteCard(ctx context.Context, id string) error {
	if err := s.cards.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// ListCards returns every card.
func (s *LedgerService) ListCards(ctx context.Context) ([]core.CreditCard, error) {
	cards, err := s.cards.FetchCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}
	return cards, nil
}

func (s *LedgerService) fetchAll(ctx context.Context) ([]core.Transaction, []core.CreditCard, error) {
	transactions, err := s.transactions.FetchTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch transactions: %w", err)
	}
	cards, err := s.cards.FetchCards(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch cards: %w", err)
	}
	return transactions, cards, nil
}

func (s *LedgerService) publishSync(ctx context.Context, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSync(ctx, id); err != nil {
		// Mutation already persisted locally; the periodic export catches up.
		slog.ErrorContext(ctx, "Failed to publish sync event", "id", id, "error", err)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete event", "id", id, "error", err)
	}
}
