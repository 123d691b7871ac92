package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
)

// LedgerReader is the read-only slice of storage the worker needs to
// build a snapshot.
type LedgerReader interface {
	FetchTransactions(ctx context.Context) ([]core.Transaction, error)
	FetchCards(ctx context.Context) ([]core.CreditCard, error)
}

// Snapshot is the on-disk export format. It is the same shape the
// legacy importer reads, so an export can be re-imported elsewhere.
type Snapshot struct {
	ExportedAt   time.Time          `json:"exportedAt"`
	Transactions []core.Transaction `json:"transactions"`
	Cards        []core.CreditCard  `json:"cards"`
}

// ExportWorker mirrors the ledger to a JSON file on disk. Mutations
// arrive as AMQP events and only mark the snapshot dirty; the actual
// write happens on the periodic tick, so a burst of inserts costs one
// export.
type ExportWorker struct {
	reader LedgerReader
	path   string

	mu    sync.Mutex
	dirty bool
}

func NewExportWorker(reader LedgerReader, path string) *ExportWorker {
	return &ExportWorker{
		reader: reader,
		path:   path,
		dirty:  true, // first tick always exports
	}
}

// HandleEvent processes a single ledger event from AMQP
func (w *ExportWorker) HandleEvent(event *amqp.LedgerEvent) error {
	slog.Info("Processing ledger event",
		"kind", event.Kind,
		"id", event.ID)

	w.markDirty()
	return nil
}

func (w *ExportWorker) markDirty() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

// RunPeriodic exports on every tick while the snapshot is dirty, until
// the context is cancelled.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.mu.Lock()
			dirty := w.dirty
			w.mu.Unlock()
			if !dirty {
				continue
			}
			if err := w.ExportNow(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}

// ExportNow builds a snapshot and writes it atomically. The file is
// written next to its final path and renamed, so readers never see a
// half-written export.
//
// The dirty flag is cleared before the store reads, not after: an event
// arriving while the export is in flight re-marks the snapshot dirty and
// the next tick picks its mutation up. Clearing afterwards would swallow
// such events. A failed export restores the flag so the tick retries.
func (w *ExportWorker) ExportNow(ctx context.Context) error {
	w.mu.Lock()
	w.dirty = false
	w.mu.Unlock()

	transactions, err := w.reader.FetchTransactions(ctx)
	if err != nil {
		w.markDirty()
		return fmt.Errorf("fetch transactions for export: %w", err)
	}
	cards, err := w.reader.FetchCards(ctx)
	if err != nil {
		w.markDirty()
		return fmt.Errorf("fetch cards for export: %w", err)
	}

	snapshot := Snapshot{
		ExportedAt:   time.Now().UTC(),
		Transactions: transactions,
		Cards:        cards,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		w.markDirty()
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := writeAtomic(w.path, data); err != nil {
		w.markDirty()
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"path", w.path,
		"transactions", len(transactions),
		"cards", len(cards))

	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
