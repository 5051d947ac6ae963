// Package store holds the in-memory table collection that inference,
// profiling and merging operate on. Loaders populate a Store; once loaded
// the tables are treated as read-only.
package store

import (
	"fmt"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
)

// Store is an ordered collection of named tables. Iteration order is
// insertion order, which keeps inference output deterministic.
type Store struct {
	order  []string
	tables map[string]*models.Table
}

// New creates an empty store.
func New() *Store {
	return &Store{tables: make(map[string]*models.Table)}
}

// Add registers a table. Table names must be unique within the store.
func (s *Store) Add(t *models.Table) error {
	if t.Name == "" {
		return fmt.Errorf("table name must not be empty")
	}
	if _, exists := s.tables[t.Name]; exists {
		return fmt.Errorf("table %q already in store", t.Name)
	}
	s.order = append(s.order, t.Name)
	s.tables[t.Name] = t
	return nil
}

// Table returns the named table.
func (s *Store) Table(name string) (*models.Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", name, apperrors.ErrTableNotFound)
	}
	return t, nil
}

// Has reports whether the named table exists.
func (s *Store) Has(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// Names returns the table names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tables.
func (s *Store) Len() int {
	return len(s.order)
}
