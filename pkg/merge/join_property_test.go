package merge

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ekaya-inc/databridge/pkg/models"
)

// nestedLoopJoin is the O(n*m) oracle: for every left row, scan every right
// row and emit the pair on key equality. Nulls never match.
func nestedLoopJoin(left, right *models.Table, leftKey, rightKey string) *models.Table {
	lk, _ := left.Column(leftKey)
	rk, _ := right.Column(rightKey)

	columns := make([]*models.Column, 0, len(left.Columns)+len(right.Columns))
	for _, col := range left.Columns {
		columns = append(columns, &models.Column{Name: col.Name, Type: col.Type})
	}
	for _, col := range right.Columns {
		columns = append(columns, &models.Column{Name: col.Name, Type: col.Type})
	}

	for i, lv := range lk.Values {
		if lv == nil {
			continue
		}
		for j, rv := range rk.Values {
			if rv == nil || lv != rv {
				continue
			}
			for ci, col := range left.Columns {
				columns[ci].Values = append(columns[ci].Values, col.Values[i])
			}
			for ci, col := range right.Columns {
				columns[len(left.Columns)+ci].Values = append(columns[len(left.Columns)+ci].Values, col.Values[j])
			}
		}
	}
	return &models.Table{Name: left.Name, Columns: columns}
}

func keyedTable(name, key string, keys []int64) *models.Table {
	values := make([]any, len(keys))
	rows := make([]any, len(keys))
	for i, k := range keys {
		if k < 0 {
			values[i] = nil // negative stands in for a null key
		} else {
			values[i] = k
		}
		rows[i] = int64(i)
	}
	return &models.Table{Name: name, Columns: []*models.Column{
		{Name: key, Type: models.TypeInteger, Values: values},
		{Name: name + "_row", Type: models.TypeInteger, Values: rows},
	}}
}

func TestInnerJoinMatchesNestedLoopOracle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genKeys := gen.SliceOf(gen.Int64Range(-2, 8))

	properties.Property("hash join agrees with nested-loop join", prop.ForAll(
		func(leftKeys, rightKeys []int64) bool {
			left := keyedTable("l", "k", leftKeys)
			right := keyedTable("r", "k2", rightKeys)

			got, err := innerJoin(left, right, "k", "k2")
			if err != nil {
				return false
			}
			want := nestedLoopJoin(left, right, "k", "k2")

			if got.RowCount() != want.RowCount() {
				return false
			}
			for ci := range want.Columns {
				if !reflect.DeepEqual(got.Columns[ci].Values, want.Columns[ci].Values) {
					return false
				}
			}
			return true
		},
		genKeys, genKeys,
	))

	properties.Property("result never exceeds the cross product", prop.ForAll(
		func(leftKeys, rightKeys []int64) bool {
			got, err := innerJoin(keyedTable("l", "k", leftKeys), keyedTable("r", "k2", rightKeys), "k", "k2")
			return err == nil && got.RowCount() <= len(leftKeys)*len(rightKeys)
		},
		genKeys, genKeys,
	))

	properties.TestingRun(t)
}
