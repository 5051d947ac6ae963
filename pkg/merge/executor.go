package merge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
	"github.com/ekaya-inc/databridge/pkg/store"
)

// DiagnosticKind labels an advisory surfaced during join execution.
type DiagnosticKind string

const (
	// DiagnosticFanout means a join step multiplied the running row count:
	// the joined-to key was not unique, so the result may be inflated.
	DiagnosticFanout DiagnosticKind = "fanout"

	// DiagnosticDroppedRows means an inner join step discarded unmatched
	// rows from the running result.
	DiagnosticDroppedRows DiagnosticKind = "dropped_rows"
)

// Diagnostic is a non-fatal observation about a join step. The merge still
// returns a result; the caller decides whether the condition matters.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Step       Step           `json:"step"`
	LeftRows   int            `json:"left_rows"`
	RightRows  int            `json:"right_rows"`
	ResultRows int            `json:"result_rows"`
	Message    string         `json:"message"`
}

// Executor runs join plans against a table store.
type Executor struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExecutor creates an executor. If logger is nil, a no-op logger is
// used.
func NewExecutor(st *store.Store, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{store: st, logger: logger.Named("merge")}
}

// Execute runs the plan step by step and projects the combined result down
// to the requested "<table>_<column>" columns in selection order. The
// running result starts as a prefixed copy of the first step's from table;
// every step inner-joins a prefixed copy of its to table. An empty plan is
// only valid for a single-table selection, which reduces to a projection.
func (e *Executor) Execute(plan Plan, selections []Selection) (*models.Table, []Diagnostic, error) {
	if len(plan.Steps) == 0 {
		if len(selections) != 1 {
			return nil, nil, fmt.Errorf("empty plan supports exactly one selected table, got %d", len(selections))
		}
		base, err := e.store.Table(selections[0].Table)
		if err != nil {
			return nil, nil, err
		}
		result, err := project(base.PrefixedCopy(), selections)
		return result, nil, err
	}

	base, err := e.store.Table(plan.Steps[0].FromTable)
	if err != nil {
		return nil, nil, err
	}
	acc := base.PrefixedCopy()

	var diagnostics []Diagnostic
	for _, step := range plan.Steps {
		right, err := e.store.Table(step.ToTable)
		if err != nil {
			return nil, nil, err
		}
		leftKey := step.FromTable + "_" + step.FromColumn
		rightKey := step.ToTable + "_" + step.ToColumn

		leftRows := acc.RowCount()
		rightCopy := right.PrefixedCopy()

		joined, err := innerJoin(acc, rightCopy, leftKey, rightKey)
		if err != nil {
			return nil, nil, fmt.Errorf("join %s to %s: %w", step.FromTable, step.ToTable, err)
		}

		diagnostics = append(diagnostics, e.inspectStep(step, leftRows, rightCopy.RowCount(), joined.RowCount())...)
		acc = joined
	}

	result, err := project(acc, selections)
	if err != nil {
		return nil, nil, err
	}
	return result, diagnostics, nil
}

// inspectStep surfaces fan-out and dropped-row conditions for a completed
// join step. Joining the foreign-key side to the primary-key side should
// keep the row count at or below the pre-join count; anything above means
// the joined-to key was duplicated.
func (e *Executor) inspectStep(step Step, leftRows, rightRows, resultRows int) []Diagnostic {
	var out []Diagnostic
	if resultRows > leftRows {
		d := Diagnostic{
			Kind:       DiagnosticFanout,
			Step:       step,
			LeftRows:   leftRows,
			RightRows:  rightRows,
			ResultRows: resultRows,
			Message: fmt.Sprintf("join to %s.%s fanned out from %d to %d rows; joined-to key is not unique",
				step.ToTable, step.ToColumn, leftRows, resultRows),
		}
		e.logger.Warn(d.Message,
			zap.String("to_table", step.ToTable),
			zap.String("to_column", step.ToColumn),
			zap.Int("left_rows", leftRows),
			zap.Int("result_rows", resultRows))
		out = append(out, d)
	}
	if resultRows < leftRows {
		d := Diagnostic{
			Kind:       DiagnosticDroppedRows,
			Step:       step,
			LeftRows:   leftRows,
			RightRows:  rightRows,
			ResultRows: resultRows,
			Message: fmt.Sprintf("inner join to %s dropped %d unmatched rows",
				step.ToTable, leftRows-resultRows),
		}
		e.logger.Warn(d.Message,
			zap.String("to_table", step.ToTable),
			zap.Int("dropped", leftRows-resultRows))
		out = append(out, d)
	}
	return out
}

// innerJoin hash-joins left and right on equality of the named key columns.
// Null keys never match. The result carries every left column followed by
// every right column; key columns from both sides survive under their
// prefixed names.
func innerJoin(left, right *models.Table, leftKey, rightKey string) (*models.Table, error) {
	lk, ok := left.Column(leftKey)
	if !ok {
		return nil, fmt.Errorf("column %q: %w", leftKey, apperrors.ErrColumnNotFound)
	}
	rk, ok := right.Column(rightKey)
	if !ok {
		return nil, fmt.Errorf("column %q: %w", rightKey, apperrors.ErrColumnNotFound)
	}

	index := make(map[any][]int, right.RowCount())
	for i, v := range rk.Values {
		if v == nil {
			continue
		}
		index[v] = append(index[v], i)
	}

	columns := make([]*models.Column, 0, len(left.Columns)+len(right.Columns))
	for _, col := range left.Columns {
		columns = append(columns, &models.Column{Name: col.Name, Type: col.Type})
	}
	for _, col := range right.Columns {
		columns = append(columns, &models.Column{Name: col.Name, Type: col.Type})
	}

	for i, v := range lk.Values {
		if v == nil {
			continue
		}
		for _, j := range index[v] {
			for ci, col := range left.Columns {
				columns[ci].Values = append(columns[ci].Values, col.Values[i])
			}
			for ci, col := range right.Columns {
				columns[len(left.Columns)+ci].Values = append(columns[len(left.Columns)+ci].Values, col.Values[j])
			}
		}
	}

	return &models.Table{Name: left.Name, Columns: columns}, nil
}

// project restricts the combined table to the requested columns, renamed
// nothing: the output keeps the "<table>_<column>" names, ordered by the
// caller's selections.
func project(combined *models.Table, selections []Selection) (*models.Table, error) {
	var columns []*models.Column
	for _, sel := range selections {
		for _, name := range sel.Columns {
			prefixed := sel.Table + "_" + name
			col, ok := combined.Column(prefixed)
			if !ok {
				return nil, fmt.Errorf("column %q: %w", prefixed, apperrors.ErrColumnNotFound)
			}
			columns = append(columns, col)
		}
	}
	return &models.Table{Name: "merged", Columns: columns}, nil
}
