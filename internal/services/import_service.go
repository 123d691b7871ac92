package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/legacy"
)

// ImportService runs the one-time legacy migration: normalize every record
// from the old layout and insert it into the canonical stores.
//
// The import deliberately does not deduplicate; running the same export
// twice inserts everything twice. Guarding against re-import is the
// operator's responsibility and the CLI warns about it.
type ImportService struct {
	transactions TransactionStore
	cards        CardStore
}

func NewImportService(transactions TransactionStore, cards CardStore) *ImportService {
	return &ImportService{transactions: transactions, cards: cards}
}

// Run converts and inserts every record in the export. Per-record repairs
// are collected as warnings; insert failures are counted and logged but do
// not abort the batch.
func (s *ImportService) Run(ctx context.Context, export legacy.Export) (legacy.Report, error) {
	report := legacy.Report{}
	now := time.Now()

	for i, rec := range export.Transactions {
		t, warnings := legacy.Normalize(rec, now)
		for _, w := range warnings {
			report.Warn("transaction", i, w)
		}
		if err := s.transactions.InsertTransaction(ctx, t); err != nil {
			report.Failed++
			report.Warn("transaction", i, fmt.Sprintf("insert failed: %v", err))
			slog.ErrorContext(ctx, "Failed to insert migrated transaction",
				"index", i, "error", err)
			continue
		}
		report.Transactions++
	}

	for i, rec := range export.Cards {
		card := legacy.NormalizeCard(rec)
		if err := s.cards.InsertCard(ctx, card); err != nil {
			report.Failed++
			report.Warn("card", i, fmt.Sprintf("insert failed: %v", err))
			slog.ErrorContext(ctx, "Failed to insert migrated card",
				"index", i, "error", err)
			continue
		}
		report.Cards++
	}

	slog.InfoContext(ctx, "Legacy import finished",
		"transactions", report.Transactions,
		"cards", report.Cards,
		"warnings", len(report.Warnings),
		"failed", report.Failed)
	return report, nil
}
