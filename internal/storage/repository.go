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

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states for the export worker.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("expense not found")

// SQLiteRepository persists expenses and opaque settings blobs in a local
// SQLite database. It is the system of record; the export worker mirrors
// rows elsewhere asynchronously.
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

// InsertExpense stores a new expense in pending sync state.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, concept, amount_cents, currency, category, spent_on)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Concept, e.Amount.Cents, string(e.Currency), string(e.Category), e.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"concept", e.Concept,
		"amount_cents", e.Amount.Cents,
		"currency", e.Currency,
		"date", e.Date.String())
	return nil
}

// ListExpenses returns every non-deleted expense, most recent date first.
// The aggregation layer works on this full snapshot.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, concept, amount_cents, currency, category, spent_on
		FROM expenses
		WHERE deleted_at IS NULL
		ORDER BY spent_on DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// GetExpense fetches one expense by ID, including soft-deleted rows so the
// export worker can mirror tombstones.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, concept, amount_cents, currency, category, spent_on
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	return e, err
}

// UpdateExpense overwrites the editable fields, bumps the version and
// returns the row to pending sync state.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET concept = ?, amount_cents = ?, currency = ?, category = ?, spent_on = ?,
		    version = version + 1, sync_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		e.Concept, e.Amount.Cents, string(e.Currency), string(e.Category), e.Date.String(),
		SyncPending, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteExpense hides the expense from every read path and queues a
// delete for the export worker.
func (r *SQLiteRepository) SoftDeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET deleted_at = CURRENT_TIMESTAMP, sync_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		SyncPending, id,
	)
	if err != nil {
		return fmt.Errorf("soft delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// IsDeleted reports whether the expense carries a soft-delete tombstone.
func (r *SQLiteRepository) IsDeleted(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.QueryRowContext(ctx,
		`SELECT deleted_at IS NOT NULL FROM expenses WHERE id = ?`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("check deletion state: %w", err)
	}
	return deleted, nil
}

// PendingSyncExpense is the minimal row state the export worker needs.
type PendingSyncExpense struct {
	ID      string
	Version int64
	Deleted bool
}

// GetPendingSyncExpenses returns rows not yet mirrored by the worker, oldest
// first, up to limit.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]PendingSyncExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, deleted_at IS NOT NULL
		FROM expenses
		WHERE sync_state = ?
		ORDER BY updated_at ASC
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncExpense
	for rows.Next() {
		var p PendingSyncExpense
		if err := rows.Scan(&p.ID, &p.Version, &p.Deleted); err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending expenses: %w", err)
	}
	return out, nil
}

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_state = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a row whose export failed; the periodic sweep will
// not retry it until it is touched again.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_state = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}

// LoadSetting implements budget.Store.
func (r *SQLiteRepository) LoadSetting(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load setting %q: %w", key, err)
	}
	return value, true, nil
}

// SaveSetting implements budget.Store.
func (r *SQLiteRepository) SaveSetting(ctx context.Context, key string, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, blob, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		currency string
		category string
		spentOn  string
	)
	if err := row.Scan(&e.ID, &e.Concept, &e.Amount.Cents, &currency, &category, &spentOn); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Currency = core.Currency(currency)
	// Stored category values are kept verbatim; normalization happens at
	// aggregation time.
	e.Category = core.Category(category)
	date, err := core.ParseDate(spentOn)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", spentOn, err)
	}
	e.Date = date
	return e, nil
}
