// Package storage persists the canonical ledger documents in SQLite. The
// repository is the opaque id-keyed collection the engine reads whole and
// writes by id; it is always injected, never a process-wide singleton.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, description, amount_cents, date, type, category, status,
	card_id, installment_current, installment_total, installment_group`

// FetchTransactions returns every transaction document.
func (r *SQLiteRepository) FetchTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetTransaction returns one transaction by id, or ErrNotFound.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// InsertTransaction writes one transaction document.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	cardID := sql.NullString{String: t.CardID, Valid: t.CardID != ""}
	var current, total sql.NullInt64
	var group sql.NullString
	if t.Installments != nil {
		current = sql.NullInt64{Int64: int64(t.Installments.Current), Valid: true}
		total = sql.NullInt64{Int64: int64(t.Installments.Total), Valid: true}
		group = sql.NullString{String: t.Installments.GroupID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, t.Date.UTC().Format(time.RFC3339),
		string(t.Type), t.Category, string(t.Status), cardID, current, total, group)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"category", t.Category)
	return nil
}

// UpdateTransaction replaces the document with the given id.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	cardID := sql.NullString{String: t.CardID, Valid: t.CardID != ""}
	var current, total sql.NullInt64
	var group sql.NullString
	if t.Installments != nil {
		current = sql.NullInt64{Int64: int64(t.Installments.Current), Valid: true}
		total = sql.NullInt64{Int64: int64(t.Installments.Total), Valid: true}
		group = sql.NullString{String: t.Installments.GroupID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET description = ?, amount_cents = ?, date = ?, type = ?,
			category = ?, status = ?, card_id = ?,
			installment_current = ?, installment_total = ?, installment_group = ?
		WHERE id = ?`,
		t.Description, t.Amount.Cents, t.Date.UTC().Format(time.RFC3339), string(t.Type),
		t.Category, string(t.Status), cardID, current, total, group, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes one document by id.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// FetchCards returns every card document.
func (r *SQLiteRepository) FetchCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, limit_cents, closing_day, due_day, color FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}
	defer rows.Close()

	var out []core.CreditCard
	for rows.Next() {
		var c core.CreditCard
		if err := rows.Scan(&c.ID, &c.Name, &c.Limit.Cents, &c.ClosingDay, &c.DueDay, &c.Color); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

// InsertCard writes one card document.
func (r *SQLiteRepository) InsertCard(ctx context.Context, c core.CreditCard) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, limit_cents, closing_day, due_day, color)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Limit.Cents, c.ClosingDay, c.DueDay, c.Color)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	slog.InfoContext(ctx, "Card saved", "id", c.ID, "name", c.Name)
	return nil
}

// UpdateCard replaces the card with the given id.
func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.CreditCard) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards SET name = ?, limit_cents = ?, closing_day = ?, due_day = ?, color = ?
		WHERE id = ?`,
		c.Name, c.Limit.Cents, c.ClosingDay, c.DueDay, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCard removes a card. Its transactions are left in place and become
// orphaned; the classifier degrades them to calendar-date matching.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Card deleted", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t           core.Transaction
		dateText    string
		typeText    string
		statusText  string
		cardID      sql.NullString
		instCurrent sql.NullInt64
		instTotal   sql.NullInt64
		instGroup   sql.NullString
	)
	err := row.Scan(&t.ID, &t.Description, &t.Amount.Cents, &dateText, &typeText,
		&t.Category, &statusText, &cardID, &instCurrent, &instTotal, &instGroup)
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := time.Parse(time.RFC3339, dateText)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateText, err)
	}
	t.Date = date
	t.Type = core.TransactionType(typeText)
	t.Status = core.TransactionStatus(statusText)
	t.CardID = cardID.String
	if instGroup.Valid {
		t.Installments = &core.Installments{
			Current: int(instCurrent.Int64),
			Total:   int(instTotal.Int64),
			GroupID: instGroup.String,
		}
	}
	return t, nil
}
