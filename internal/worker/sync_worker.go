package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/amqp"
	"gastos/internal/export"
	"gastos/internal/storage"
)

// SyncWorker mirrors expense rows from SQLite into the configured exporter.
// It is driven by AMQP messages, with a periodic sweep over pending rows as
// a backup for lost messages.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  export.ExpenseExporter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter export.ExpenseExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single expense sync message from AMQP. The
// message only names the row; the current database state decides whether
// this becomes an upsert or a delete.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	return w.syncExpense(ctx, msg.ID)
}

// ProcessPendingExpenses sweeps rows that still carry pending sync state.
// This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains pending rows accumulated while the worker was
// down, using a larger batch than the periodic sweep.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := w.syncExpense(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending sweep completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

// syncExpense mirrors a single row: live rows are upserted, soft-deleted
// rows are removed from the destination.
func (w *SyncWorker) syncExpense(ctx context.Context, id string) error {
	expense, err := w.storage.GetExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Hard-deleted or never existed. Nothing to mirror.
		slog.WarnContext(ctx, "Expense not found, skipping sync", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	deleted, err := w.storage.IsDeleted(ctx, id)
	if err != nil {
		return fmt.Errorf("check deletion state: %w", err)
	}

	if deleted {
		if err := w.exporter.Delete(ctx, id); err != nil {
			w.markError(ctx, id)
			return fmt.Errorf("delete exported row: %w", err)
		}
		if err := w.storage.MarkSynced(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		}
		slog.InfoContext(ctx, "Removed expense from export destination", "id", id)
		return nil
	}

	ref, err := w.exporter.Upsert(ctx, expense)
	if err != nil {
		w.markError(ctx, id)
		return fmt.Errorf("export expense: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// The export itself worked, no reason to fail the message.
	}

	slog.InfoContext(ctx, "Synced expense",
		"id", id,
		"sheets_ref", ref,
		"amount_cents", expense.Amount.Cents)
	return nil
}

func (w *SyncWorker) markError(ctx context.Context, id string) {
	if err := w.storage.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
