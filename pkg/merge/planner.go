// Package merge converts resolved table paths into ordered join plans and
// executes them against the store, producing a single combined table
// restricted to the requested columns.
package merge

import (
	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
)

// Selection names a table and the columns wanted from it in the merge
// result. Selections are ordered so the output projection is well defined.
type Selection struct {
	Table   string   `yaml:"table" json:"table"`
	Columns []string `yaml:"columns" json:"columns"`
}

// Step is a single resolved join: the accumulated result's
// "<from_table>_<from_column>" key joined against the fresh copy of
// to_table on "<to_table>_<to_column>".
type Step struct {
	FromTable  string  `json:"from_table"`
	FromColumn string  `json:"from_column"`
	ToTable    string  `json:"to_table"`
	ToColumn   string  `json:"to_column"`
	Confidence float64 `json:"confidence"`
}

// Plan is the ordered sequence of join steps, executed left to right.
type Plan struct {
	Steps []Step `json:"steps"`
}

// BuildPlan resolves each consecutive table pair along each sub-path to the
// single relationship covering it. Zero matches for a pair is a no-mapping
// error; more than one is an ambiguous-mapping error carrying every
// candidate.
func BuildPlan(paths [][]string, rels models.RelationshipSet) (Plan, error) {
	var plan Plan
	for _, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			left, right := path[i], path[i+1]
			matches := rels.Between(left, right)
			switch len(matches) {
			case 0:
				return Plan{}, &apperrors.NoMappingError{From: left, To: right}
			case 1:
				rel := matches[0]
				plan.Steps = append(plan.Steps, Step{
					FromTable:  rel.FromTable,
					FromColumn: rel.FromColumn,
					ToTable:    rel.ToTable,
					ToColumn:   rel.ToColumn,
					Confidence: rel.Confidence,
				})
			default:
				return Plan{}, &apperrors.AmbiguousMappingError{From: left, To: right, Candidates: matches}
			}
		}
	}
	return plan, nil
}
