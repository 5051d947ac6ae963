package merge

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
)

func rel(fromTable, fromColumn, toTable, toColumn string) models.Relationship {
	return models.Relationship{
		ID:         uuid.New(),
		FromTable:  fromTable,
		FromColumn: fromColumn,
		ToTable:    toTable,
		ToColumn:   toColumn,
		Confidence: 1.0,
		Method:     models.DetectionValueMatch,
	}
}

func TestBuildPlan(t *testing.T) {
	rels := models.NewRelationshipSet([]models.Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
		rel("customers", "city_id", "cities", "city_id"),
	})

	plan, err := BuildPlan([][]string{{"orders", "customers", "cities"}}, rels)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, Step{
		FromTable: "orders", FromColumn: "customer_id",
		ToTable: "customers", ToColumn: "customer_id",
		Confidence: 1.0,
	}, plan.Steps[0])
	assert.Equal(t, "cities", plan.Steps[1].ToTable)
}

func TestBuildPlanNoMapping(t *testing.T) {
	rels := models.NewRelationshipSet([]models.Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
	})

	_, err := BuildPlan([][]string{{"customers", "orders"}}, rels)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoMapping)

	var noMapping *apperrors.NoMappingError
	require.ErrorAs(t, err, &noMapping)
	assert.Equal(t, "customers", noMapping.From)
	assert.Equal(t, "orders", noMapping.To)
}

func TestBuildPlanAmbiguousMapping(t *testing.T) {
	rels := models.NewRelationshipSet([]models.Relationship{
		rel("orders", "billing_id", "customers", "customer_id"),
		rel("orders", "shipping_id", "customers", "customer_id"),
	})

	_, err := BuildPlan([][]string{{"orders", "customers"}}, rels)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAmbiguousMapping)

	var ambiguous *apperrors.AmbiguousMappingError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Candidates, 2)
}

func TestBuildPlanMultipleSubPaths(t *testing.T) {
	rels := models.NewRelationshipSet([]models.Relationship{
		rel("orders", "customer_id", "customers", "customer_id"),
		rel("orders", "product_id", "products", "product_id"),
	})

	plan, err := BuildPlan([][]string{
		{"orders", "customers"},
		{"orders", "products"},
	}, rels)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "customers", plan.Steps[0].ToTable)
	assert.Equal(t, "products", plan.Steps[1].ToTable)
}
