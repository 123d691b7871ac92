package services

import (
	"context"

	"financas/internal/core"
)

// TransactionStore is the narrow contract the engine needs from the
// transaction collection: fetch-all plus id-keyed writes.
type TransactionStore interface {
	FetchTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	InsertTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// CardStore is the same CRUD shape over credit cards.
type CardStore interface {
	FetchCards(ctx context.Context) ([]core.CreditCard, error)
	InsertCard(ctx context.Context, c core.CreditCard) error
	UpdateCard(ctx context.Context, c core.CreditCard) error
	DeleteCard(ctx context.Context, id string) error
}

// EventPublisher notifies downstream consumers of ledger mutations.
// Publishing is best effort; failures never fail the mutation itself.
type EventPublisher interface {
	PublishSync(ctx context.Context, id string) error
	PublishDelete(ctx context.Context, id string) error
}
