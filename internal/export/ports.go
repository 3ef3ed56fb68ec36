package export

import (
	"context"

	"gastos/internal/core"
)

// ExpenseExporter mirrors expense rows to an external destination. Rows are
// keyed by expense ID, so replays of the same message are idempotent.
type ExpenseExporter interface {
	// Upsert writes or overwrites the row for e and returns a destination
	// reference for logging.
	Upsert(ctx context.Context, e core.Expense) (ref string, err error)

	// Delete removes the row for the given expense ID. Deleting an ID that
	// was never exported is not an error.
	Delete(ctx context.Context, id string) error
}
