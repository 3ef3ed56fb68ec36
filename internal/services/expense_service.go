package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/report"
	"gastos/internal/storage"
)

// SyncPublisher notifies the export worker that an expense changed.
type SyncPublisher interface {
	PublishExpenseSync(ctx context.Context, id string, version int64) error
}

// ExpenseService orchestrates the expense lifecycle across SQLite and AMQP.
// The database write always comes first; a failed publish only delays the
// mirror, the periodic sweep picks the row up later.
type ExpenseService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewExpenseService(storage *storage.SQLiteRepository, publisher SyncPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateExpense validates, assigns an ID, saves locally and queues the sync.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.Category = core.NormalizeCategory(string(e.Category))
	if e.Currency == "" {
		e.Currency = core.DefaultCurrency
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.storage.InsertExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	// Non-fatal: the expense is already saved locally.
	s.publish(ctx, e.ID, 1)

	return e, nil
}

// UpdateExpense overwrites the editable fields of an existing expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	e.Category = core.NormalizeCategory(string(e.Category))
	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return err
	}

	s.publish(ctx, e.ID, 0)
	return nil
}

// DeleteExpense soft deletes an expense locally and queues the tombstone.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.storage.SoftDeleteExpense(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, 0)
	return nil
}

// ListExpenses returns every live expense, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

// MonthExpenses returns the expenses of one calendar month, month is 1-based.
func (s *ExpenseService) MonthExpenses(ctx context.Context, year, month int) ([]core.Expense, error) {
	all, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return report.FilterByMonth(all, year, month), nil
}

func (s *ExpenseService) publish(ctx context.Context, id string, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping sync message", "id", id)
		return
	}
	if err := s.publisher.PublishExpenseSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}

// Close closes the underlying storage connection.
func (s *ExpenseService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close expense service: %w", err)
		}
	}
	return nil
}
