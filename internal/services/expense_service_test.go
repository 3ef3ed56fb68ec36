package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gastos/internal/core"
	"gastos/internal/storage"
)

type fakePublisher struct {
	published []string
	fail      bool
}

func (p *fakePublisher) PublishExpenseSync(ctx context.Context, id string, version int64) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, id)
	return nil
}

func newTestService(t *testing.T, pub SyncPublisher) *ExpenseService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewExpenseService(repo, pub)
}

func TestCreateExpenseAssignsIDAndNormalizes(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newTestService(t, pub)

	created, err := svc.CreateExpense(ctx, core.Expense{
		Concept:  "taxi",
		Amount:   core.Money{Cents: 850},
		Category: core.Category("Comida"), // not in the registry
		Date:     core.NewDate(2024, 3, 10),
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.Category != core.FallbackCategory {
		t.Errorf("category = %s, want fallback %s", created.Category, core.FallbackCategory)
	}
	if created.Currency != core.DefaultCurrency {
		t.Errorf("currency = %s, want default %s", created.Currency, core.DefaultCurrency)
	}
	if len(pub.published) != 1 || pub.published[0] != created.ID {
		t.Errorf("publish calls = %v, want one for %s", pub.published, created.ID)
	}
}

func TestCreateExpenseRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakePublisher{})

	tests := []struct {
		name    string
		expense core.Expense
		wantErr error
	}{
		{
			name: "zero amount",
			expense: core.Expense{
				Concept: "cena",
				Amount:  core.Money{Cents: 0},
				Date:    core.NewDate(2024, 3, 10),
			},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "empty concept",
			expense: core.Expense{
				Concept: "   ",
				Amount:  core.Money{Cents: 100},
				Date:    core.NewDate(2024, 3, 10),
			},
			wantErr: core.ErrEmptyConcept,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateExpense(ctx, tt.expense); !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateExpense error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if all, _ := svc.ListExpenses(ctx); len(all) != 0 {
		t.Fatalf("invalid expenses must not be persisted, got %d rows", len(all))
	}
}

func TestCreateExpenseSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakePublisher{fail: true})

	created, err := svc.CreateExpense(ctx, core.Expense{
		Concept:  "cena",
		Amount:   core.Money{Cents: 1200},
		Currency: core.EUR,
		Category: core.CategoryRestaurantes,
		Date:     core.NewDate(2024, 3, 10),
	})
	if err != nil {
		t.Fatalf("CreateExpense should not fail on publish error: %v", err)
	}

	got, err := svc.storage.GetExpense(ctx, created.ID)
	if err != nil {
		t.Fatalf("expense should be saved despite publish failure: %v", err)
	}
	if got.Concept != "cena" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newTestService(t, pub)

	created, err := svc.CreateExpense(ctx, core.Expense{
		Concept:  "cena",
		Amount:   core.Money{Cents: 1200},
		Currency: core.EUR,
		Category: core.CategoryRestaurantes,
		Date:     core.NewDate(2024, 3, 10),
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := svc.DeleteExpense(ctx, created.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if all, _ := svc.ListExpenses(ctx); len(all) != 0 {
		t.Fatal("deleted expense still listed")
	}

	if err := svc.DeleteExpense(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing = %v, want ErrNotFound", err)
	}
}

func TestMonthExpenses(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakePublisher{})

	dates := []core.Date{
		core.NewDate(2024, 3, 1),
		core.NewDate(2024, 3, 31),
		core.NewDate(2024, 2, 29),
		core.NewDate(2023, 3, 15),
	}
	for _, d := range dates {
		if _, err := svc.CreateExpense(ctx, core.Expense{
			Concept:  "gasto",
			Amount:   core.Money{Cents: 100},
			Currency: core.EUR,
			Category: core.CategoryOtros,
			Date:     d,
		}); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	march, err := svc.MonthExpenses(ctx, 2024, 3)
	if err != nil {
		t.Fatalf("MonthExpenses: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("march 2024 expenses = %d, want 2", len(march))
	}
}
