package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/databridge/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "order_id,customer_id,amount\n10,1,9.99\n20,2,15\n30,1,\n")
	writeFile(t, dir, "customers.csv", "customer_id,name\n1,ada\n2,grace\n")
	writeFile(t, dir, "notes.txt", "not a table\n")

	st, err := NewLoader(dir, ',', nil).Load(context.Background())
	require.NoError(t, err)

	// Only csv files load, in filename order.
	assert.Equal(t, []string{"customers", "orders"}, st.Names())

	orders, err := st.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, 3, orders.RowCount())

	ids, ok := orders.Column("order_id")
	require.True(t, ok)
	assert.Equal(t, models.TypeInteger, ids.Type)
	assert.Equal(t, []any{int64(10), int64(20), int64(30)}, ids.Values)

	// amount mixes an integer-looking cell with a decimal one: float wins,
	// and the empty cell is null.
	amount, ok := orders.Column("amount")
	require.True(t, ok)
	assert.Equal(t, models.TypeFloat, amount.Type)
	assert.Equal(t, []any{9.99, 15.0, nil}, amount.Values)

	names, ok := orders.Column("customer_id")
	require.True(t, ok)
	assert.Equal(t, models.TypeInteger, names.Type)
}

func TestLoadDatetimeColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "events.csv", "event_id,occurred_at\n1,2024-01-01\n2,2024-02-15\n")

	st, err := NewLoader(dir, ',', nil).Load(context.Background())
	require.NoError(t, err)

	events, err := st.Table("events")
	require.NoError(t, err)
	col, ok := events.Column("occurred_at")
	require.True(t, ok)
	assert.Equal(t, models.TypeDatetime, col.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), col.Values[0])
}

func TestLoadCustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.csv", "item_id;label\n1;widget\n")

	st, err := NewLoader(dir, ';', nil).Load(context.Background())
	require.NoError(t, err)

	items, err := st.Table("items")
	require.NoError(t, err)
	assert.Equal(t, []string{"item_id", "label"}, items.ColumnNames())
}

func TestLoadMissingHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.csv", "")

	_, err := NewLoader(dir, ',', nil).Load(context.Background())
	assert.Error(t, err)
}

func TestLoadCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x\n1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(dir, ',', nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbeTypeFallbacks(t *testing.T) {
	assert.Equal(t, models.TypeString, probeType([]string{"abc", "1"}))
	assert.Equal(t, models.TypeString, probeType([]string{"", ""}))
	assert.Equal(t, models.TypeInteger, probeType([]string{"1", "", "2"}))
}
