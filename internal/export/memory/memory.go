// Package memory is an in-process exporter used in tests and when the
// Google Sheets mirror is not configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"gastos/internal/core"
	"gastos/internal/export"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Expense
}

var _ export.ExpenseExporter = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[string]core.Expense)}
}

func (s *Store) Upsert(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = e
	return fmt.Sprintf("mem:%s", e.ID), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Get returns the exported expense for inspection in tests.
func (s *Store) Get(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	return e, ok
}

// Len returns the number of exported rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
