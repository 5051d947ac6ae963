package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/merge"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// shopStore loads a three-table schema: orders reference customers,
// customers reference cities, but cities also carries a population column
// whose values overlap nothing.
func shopStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()

	add := func(name string, cols ...*models.Column) {
		tbl, err := models.NewTable(name, cols...)
		require.NoError(t, err)
		require.NoError(t, st.Add(tbl))
	}

	add("orders",
		&models.Column{Name: "order_id", Type: models.TypeInteger, Values: []any{int64(10), int64(20), int64(30)}},
		&models.Column{Name: "customer_id", Type: models.TypeInteger, Values: []any{int64(1), int64(2), int64(1)}},
		&models.Column{Name: "amount", Type: models.TypeFloat, Values: []any{9.99, 15.00, 9.99}},
	)
	add("customers",
		&models.Column{Name: "customer_id", Type: models.TypeInteger, Values: []any{int64(1), int64(2), int64(3)}},
		&models.Column{Name: "city_id", Type: models.TypeInteger, Values: []any{int64(100), int64(200), int64(100)}},
		&models.Column{Name: "name", Type: models.TypeString, Values: []any{"ada", "grace", "edsger"}},
	)
	add("cities",
		&models.Column{Name: "city_id", Type: models.TypeInteger, Values: []any{int64(100), int64(200)}},
		&models.Column{Name: "city", Type: models.TypeString, Values: []any{"berlin", "paris"}},
	)

	return st
}

func TestNewInfersRelationships(t *testing.T) {
	c := New(shopStore(t))

	rels := c.Relationships()
	assert.Len(t, rels.Between("orders", "customers"), 1)
	assert.Len(t, rels.Between("customers", "cities"), 1)
	assert.Empty(t, c.Warnings())
}

func TestFindPathFollowsReferenceDirection(t *testing.T) {
	c := New(shopStore(t))

	path, err := c.FindPath("orders", "cities")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "customers", "cities"}, path)

	// cities references nothing, so no path leaves it.
	_, err = c.FindPath("cities", "orders")
	assert.ErrorIs(t, err, apperrors.ErrNoPathFound)
}

func TestEasyMergeThreeTables(t *testing.T) {
	c := New(shopStore(t))

	result, diagnostics, err := c.EasyMerge([]merge.Selection{
		{Table: "orders", Columns: []string{"order_id"}},
		{Table: "customers", Columns: []string{"name"}},
		{Table: "cities", Columns: []string{"city"}},
	})
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	assert.Equal(t, []string{"orders_order_id", "customers_name", "cities_city"}, result.ColumnNames())
	assert.Equal(t, 3, result.RowCount())

	city, ok := result.Column("cities_city")
	require.True(t, ok)
	assert.Equal(t, []any{"berlin", "paris", "berlin"}, city.Values)
}

func TestEasyMergeSingleTable(t *testing.T) {
	c := New(shopStore(t))

	result, _, err := c.EasyMerge([]merge.Selection{
		{Table: "cities", Columns: []string{"city"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cities_city"}, result.ColumnNames())
}

func TestEasyMergeUnknownTable(t *testing.T) {
	c := New(shopStore(t))

	_, _, err := c.EasyMerge([]merge.Selection{
		{Table: "orders", Columns: []string{"order_id"}},
		{Table: "warehouses", Columns: []string{"warehouse_id"}},
	})
	assert.Error(t, err)
}

func TestAddRelationshipRebuildsGraph(t *testing.T) {
	st := shopStore(t)
	c := New(st)

	// No inferred edge leaves cities.
	_, err := c.FindPath("cities", "orders")
	require.ErrorIs(t, err, apperrors.ErrNoPathFound)

	rel, err := c.AddRelationship("cities", "city_id", "orders", "order_id")
	require.NoError(t, err)
	assert.Equal(t, models.DetectionManual, rel.Method)
	assert.Equal(t, 1.0, rel.Confidence)

	path, err := c.FindPath("cities", "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"cities", "orders"}, path)
}

func TestAddRelationshipValidation(t *testing.T) {
	c := New(shopStore(t))

	_, err := c.AddRelationship("orders", "order_id", "orders", "order_id")
	assert.Error(t, err)

	_, err = c.AddRelationship("orders", "no_such_column", "customers", "customer_id")
	assert.Error(t, err)

	_, err = c.AddRelationship("no_such_table", "x", "customers", "customer_id")
	assert.ErrorIs(t, err, apperrors.ErrTableNotFound)
}

func TestRemoveRelationship(t *testing.T) {
	c := New(shopStore(t))

	rels := c.Relationships().Between("customers", "cities")
	require.Len(t, rels, 1)

	assert.True(t, c.RemoveRelationship(rels[0].ID))
	assert.False(t, c.RemoveRelationship(rels[0].ID))

	_, err := c.FindPath("orders", "cities")
	assert.ErrorIs(t, err, apperrors.ErrNoPathFound)
}

func TestRemoveColumnMappings(t *testing.T) {
	c := New(shopStore(t))

	removed := c.RemoveColumnMappings("city_id")
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, c.RemoveColumnMappings("city_id"))

	// The orders → customers edge survives.
	path, err := c.FindPath("orders", "customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "customers"}, path)
}

func TestProfilesAgainstSnapshot(t *testing.T) {
	c := New(shopStore(t))

	profiles, err := c.ProfileTable("orders")
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	byColumn := make(map[string]models.ColumnProfile)
	for _, p := range profiles {
		byColumn[p.Column] = p
	}
	assert.Equal(t, models.ColumnKey, byColumn["customer_id"].Type)
	assert.Equal(t, models.SubtypeForeign, byColumn["customer_id"].Subtype)
	assert.Equal(t, models.ColumnNumeric, byColumn["amount"].Type)
}

func TestNameMatchMode(t *testing.T) {
	c := New(shopStore(t), WithMode(ModeNameMatch))

	for _, r := range c.Relationships().All() {
		assert.Equal(t, models.DetectionNameMatch, r.Method)
	}
	assert.Len(t, c.Relationships().Between("orders", "customers"), 1)
}
