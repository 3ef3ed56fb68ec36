package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gastos/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sample(id string) core.Expense {
	return core.Expense{
		ID:       id,
		Concept:  "cena",
		Amount:   core.Money{Cents: 1250},
		Currency: core.EUR,
		Category: core.CategoryRestaurantes,
		Date:     core.NewDate(2024, 3, 5),
	}
}

func TestInsertAndListExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.InsertExpense(ctx, sample("a")); err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
	if err := repo.InsertExpense(ctx, sample("b")); err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}

	items, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(items))
	}
	got := items[0]
	if got.Concept != "cena" || got.Amount.Cents != 1250 || got.Currency != core.EUR {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Date.Year() != 2024 || got.Date.Month() != 3 || got.Date.Day() != 5 {
		t.Fatalf("date round trip mismatch: %s", got.Date)
	}
}

func TestSoftDeleteHidesExpense(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.InsertExpense(ctx, sample("a")); err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
	if err := repo.SoftDeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("SoftDeleteExpense: %v", err)
	}

	items, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("deleted expense still listed: %+v", items)
	}

	// Still reachable by ID for the export worker's tombstone.
	if _, err := repo.GetExpense(ctx, "a"); err != nil {
		t.Fatalf("GetExpense after delete: %v", err)
	}

	if err := repo.SoftDeleteExpense(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.InsertExpense(ctx, sample("a")); err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
	if err := repo.MarkSynced(ctx, "a"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	edited := sample("a")
	edited.Concept = "comida"
	edited.Amount = core.Money{Cents: 2000}
	if err := repo.UpdateExpense(ctx, edited); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}

	got, err := repo.GetExpense(ctx, "a")
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got.Concept != "comida" || got.Amount.Cents != 2000 {
		t.Fatalf("update not applied: %+v", got)
	}

	// Editing re-queues the row for export.
	pending, err := repo.GetPendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncExpenses: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "a" || pending[0].Version != 2 {
		t.Fatalf("pending after update: %+v", pending)
	}

	if err := repo.UpdateExpense(ctx, sample("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.InsertExpense(ctx, sample("a")); err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}

	pending, err := repo.GetPendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncExpenses: %v", err)
	}
	if len(pending) != 1 || pending[0].Deleted {
		t.Fatalf("fresh insert should be pending and not deleted: %+v", pending)
	}

	if err := repo.MarkSynced(ctx, "a"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, err = repo.GetPendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncExpenses: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("synced row should not be pending: %+v", pending)
	}

	if err := repo.SoftDeleteExpense(ctx, "a"); err != nil {
		t.Fatalf("SoftDeleteExpense: %v", err)
	}
	pending, err = repo.GetPendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncExpenses: %v", err)
	}
	if len(pending) != 1 || !pending[0].Deleted {
		t.Fatalf("delete should queue a tombstone: %+v", pending)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, found, err := repo.LoadSetting(ctx, "budget_config"); err != nil || found {
		t.Fatalf("missing setting: found=%v err=%v", found, err)
	}

	if err := repo.SaveSetting(ctx, "budget_config", []byte(`{"mode":"template"}`)); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}
	blob, found, err := repo.LoadSetting(ctx, "budget_config")
	if err != nil || !found {
		t.Fatalf("LoadSetting: found=%v err=%v", found, err)
	}
	if string(blob) != `{"mode":"template"}` {
		t.Fatalf("blob mismatch: %s", blob)
	}

	// Upsert overwrites.
	if err := repo.SaveSetting(ctx, "budget_config", []byte(`{"mode":"monthly"}`)); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}
	blob, _, _ = repo.LoadSetting(ctx, "budget_config")
	if string(blob) != `{"mode":"monthly"}` {
		t.Fatalf("upsert mismatch: %s", blob)
	}
}
