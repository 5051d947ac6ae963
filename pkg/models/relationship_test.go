package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func rel(fromTable, fromColumn, toTable, toColumn string) Relationship {
	return Relationship{
		ID:         uuid.New(),
		FromTable:  fromTable,
		FromColumn: fromColumn,
		ToTable:    toTable,
		ToColumn:   toColumn,
		Confidence: 1.0,
		Method:     DetectionValueMatch,
	}
}

func TestRelationshipSet_Between(t *testing.T) {
	set := NewRelationshipSet([]Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
		rel("orders", "billing_id", "customers", "customer_id"),
		rel("rental", "inventory_id", "inventory", "inventory_id"),
	})

	assert.Len(t, set.Between("orders", "customers"), 2)
	assert.Len(t, set.Between("customers", "orders"), 0)
	assert.Len(t, set.Between("rental", "inventory"), 1)
}

func TestRelationshipSet_SideLookups(t *testing.T) {
	set := NewRelationshipSet([]Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
	})

	assert.Len(t, set.References("orders", "customer_id"), 1)
	assert.Empty(t, set.References("customers", "customer_id"))
	assert.Len(t, set.ReferencedBy("customers", "customer_id"), 1)
	assert.Empty(t, set.ReferencedBy("orders", "customer_id"))
}

func TestRelationshipSet_TablesWithColumn(t *testing.T) {
	set := NewRelationshipSet([]Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
		rel("payments", "customer_id", "customers", "customer_id"),
	})

	toTables, fromTables := set.TablesWithColumn("customer_id")
	assert.Equal(t, []string{"customers"}, toTables)
	assert.Equal(t, []string{"orders", "payments"}, fromTables)
}

func TestRelationshipSet_SnapshotUpdates(t *testing.T) {
	set := NewRelationshipSet([]Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
	})

	added := set.WithAdded(rel("cities", "country_id", "countries", "country_id"))
	assert.Equal(t, 1, set.Len(), "original snapshot must be untouched")
	assert.Equal(t, 2, added.Len())

	trimmed, removed := added.Without(func(r Relationship) bool {
		return r.FromTable != "orders"
	})
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, trimmed.Len())
	assert.Equal(t, 2, added.Len(), "snapshot being filtered must be untouched")
}
