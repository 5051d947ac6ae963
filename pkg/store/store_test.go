package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
)

func table(t *testing.T, name string) *models.Table {
	t.Helper()
	tbl, err := models.NewTable(name, &models.Column{Name: "id", Type: models.TypeInteger, Values: []any{int64(1)}})
	require.NoError(t, err)
	return tbl
}

func TestStore_AddAndLookup(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(table(t, "orders")))
	require.NoError(t, s.Add(table(t, "customers")))

	got, err := s.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name)
	assert.True(t, s.Has("customers"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	s := New()
	for _, name := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, s.Add(table(t, name)))
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, s.Names())
}

func TestStore_RejectsDuplicateNames(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(table(t, "orders")))
	assert.Error(t, s.Add(table(t, "orders")))
}

func TestStore_UnknownTable(t *testing.T) {
	s := New()
	_, err := s.Table("missing")
	assert.True(t, errors.Is(err, apperrors.ErrTableNotFound))
}
